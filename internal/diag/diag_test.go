package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBagRespectsLimit(t *testing.T) {
	b := NewBag(2)
	assert.True(t, b.Add(New(SevWarning, IngestUnsupportedType, "a", "x")))
	assert.True(t, b.Add(New(SevError, IngestInvalidType, "b", "y")))
	assert.False(t, b.Add(New(SevWarning, IngestUnsupportedType, "c", "z")))
	assert.Equal(t, 2, b.Len())
}

func TestNewBagClampsLimit(t *testing.T) {
	assert.False(t, NewBag(-3).Add(New(SevInfo, IngestInfo, "a", "x")))

	wide := NewBag(1 << 20)
	for i := 0; i < 3; i++ {
		require.True(t, wide.Add(New(SevInfo, IngestInfo, "a", "x")))
	}
}

func TestBagSortIsDeterministic(t *testing.T) {
	b := NewBag(8)
	b.Add(New(SevInfo, IngestUnknownLayout, "b", "m"))
	b.Add(New(SevWarning, IngestUnsupportedType, "z", "m"))
	b.Add(New(SevError, IngestInvalidType, "y", "m"))
	b.Add(New(SevWarning, IngestUnsupportedType, "a", "m"))
	b.Sort()

	subjects := make([]string, 0, b.Len())
	for _, d := range b.Items() {
		subjects = append(subjects, d.Subject)
	}
	assert.Equal(t, []string{"y", "a", "z", "b"}, subjects)
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	b := NewBag(4)
	rb := ReportWarning(BagReporter{Bag: b}, IngestMemberDropped, "struct s", "member `v` dropped").
		WithNote("member type: float4")
	rb.Emit()
	rb.Emit()
	require.Equal(t, 1, b.Len())
	got := b.Items()[0]
	assert.Equal(t, SevWarning, got.Severity)
	assert.Equal(t, []string{"member type: float4"}, got.Notes)
}

func TestDedupReporter(t *testing.T) {
	b := NewBag(8)
	r := NewDedupReporter(BagReporter{Bag: b})
	r.Report(IngestUnsupportedType, SevWarning, "float4", "unsupported", nil)
	r.Report(IngestUnsupportedType, SevWarning, "float4", "unsupported", nil)
	r.Report(IngestUnsupportedType, SevWarning, "double2", "unsupported", nil)
	assert.Equal(t, 2, b.Len())
}

func TestFormatShort(t *testing.T) {
	diags := []Diagnostic{
		New(SevWarning, IngestUnsupportedType, "float4", "unsupported type kind\nvector").WithNote("skipped"),
		New(SevError, IngestInvalidType, "", "invalid type"),
	}
	want := "warning ING4001 `float4`: unsupported type kind vector\n" +
		"  note: skipped\n" +
		"error ING4002: invalid type"
	assert.Equal(t, want, FormatShort(diags))
}

func TestCodeString(t *testing.T) {
	assert.Equal(t, "[ING4001]: Unsupported foreign type", IngestUnsupportedType.String())
	assert.Equal(t, "ANA5001", AnalysisOpaqueBlob.ID())
	assert.Equal(t, "E0000", Code(9).ID())
	assert.Equal(t, "Unknown error", Code(4999).Title())
}

func TestParseSeverity(t *testing.T) {
	sev, err := ParseSeverity("Warn")
	require.NoError(t, err)
	assert.Equal(t, SevWarning, sev)
	_, err = ParseSeverity("fatal")
	require.Error(t, err)
}
