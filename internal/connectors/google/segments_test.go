package google

import (
	"reflect"
	"testing"

	"google.golang.org/api/docs/v1"

	"github.com/vellum-labs/vellum/internal/core/domain"
)

func paragraph(style string, headingID string, runs ...string) *docs.StructuralElement {
	elements := make([]*docs.ParagraphElement, len(runs))
	for i, run := range runs {
		elements[i] = &docs.ParagraphElement{TextRun: &docs.TextRun{Content: run}}
	}

	p := &docs.Paragraph{Elements: elements}
	if style != "" {
		p.ParagraphStyle = &docs.ParagraphStyle{NamedStyleType: style, HeadingId: headingID}
	}
	return &docs.StructuralElement{Paragraph: p}
}

func TestExtractSegments_Paragraphs(t *testing.T) {
	segments := extractSegments([]*docs.StructuralElement{
		paragraph("", "", "Hello ", "world\n"),
		paragraph("", "", "Second paragraph\n"),
	})

	want := []domain.Segment{
		{Text: "Hello world"},
		{Text: "Second paragraph"},
	}
	if !reflect.DeepEqual(segments, want) {
		t.Fatalf("segments = %+v, want %+v", segments, want)
	}
}

func TestExtractSegments_BlankParagraphsDropped(t *testing.T) {
	segments := extractSegments([]*docs.StructuralElement{
		paragraph("", "", "\n"),
		paragraph("", "", "   "),
		paragraph("", "", "Kept\n"),
	})

	if len(segments) != 1 || segments[0].Text != "Kept" {
		t.Fatalf("segments = %+v, want single segment 'Kept'", segments)
	}
}

func TestExtractSegments_Headings(t *testing.T) {
	segments := extractSegments([]*docs.StructuralElement{
		paragraph("HEADING_2", "h.anchor", "Operations\n"),
		paragraph("NORMAL_TEXT", "", "Body text\n"),
	})

	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}

	heading := segments[0].Heading
	if heading == nil {
		t.Fatal("heading segment missing heading details")
	}
	if heading.Level != 2 || heading.Text != "Operations" || heading.ID != "h.anchor" {
		t.Fatalf("heading = %+v", heading)
	}
	if segments[1].Heading != nil {
		t.Fatalf("body segment should not carry heading, got %+v", segments[1].Heading)
	}
}

func TestExtractSegments_UnknownNamedStyleIsNotHeading(t *testing.T) {
	segments := extractSegments([]*docs.StructuralElement{
		paragraph("TITLE", "", "Document title\n"),
		paragraph("HEADING_X", "", "Not a heading\n"),
	})

	for _, segment := range segments {
		if segment.Heading != nil {
			t.Fatalf("segment %q should not be a heading", segment.Text)
		}
	}
}

func TestExtractSegments_TableCellsRecursed(t *testing.T) {
	table := &docs.StructuralElement{
		Table: &docs.Table{
			TableRows: []*docs.TableRow{
				{
					TableCells: []*docs.TableCell{
						{Content: []*docs.StructuralElement{paragraph("", "", "Cell A\n")}},
						{Content: []*docs.StructuralElement{paragraph("", "", "Cell B\n")}},
					},
				},
			},
		},
	}

	segments := extractSegments([]*docs.StructuralElement{
		paragraph("", "", "Before table\n"),
		table,
	})

	want := []string{"Before table", "Cell A", "Cell B"}
	if len(segments) != len(want) {
		t.Fatalf("expected %d segments, got %d", len(want), len(segments))
	}
	for i, text := range want {
		if segments[i].Text != text {
			t.Errorf("segment %d = %q, want %q", i, segments[i].Text, text)
		}
	}
}

func TestExtractSegments_SectionBreak(t *testing.T) {
	segments := extractSegments([]*docs.StructuralElement{
		paragraph("", "", "First\n"),
		{SectionBreak: &docs.SectionBreak{}},
		paragraph("", "", "Second\n"),
	})

	if len(segments) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segments))
	}
	if segments[1].Text != "" {
		t.Fatalf("section break should yield an empty segment, got %q", segments[1].Text)
	}

	if joined := joinSegments(segments); joined != "First\n\n\n\nSecond" {
		t.Fatalf("joined = %q", joined)
	}
}
