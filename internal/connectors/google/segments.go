package google

import (
	"regexp"
	"strconv"
	"strings"

	"google.golang.org/api/docs/v1"

	"github.com/vellum-labs/vellum/internal/core/domain"
)

var headingStylePattern = regexp.MustCompile(`^HEADING_(\d)$`)

// extractSegments flattens a Docs body into ordered text segments.
// Paragraphs become one segment each, table cells are recursed in
// reading order, and section breaks emit an empty segment so the joined
// text keeps a gap between sections.
func extractSegments(elements []*docs.StructuralElement) []domain.Segment {
	var segments []domain.Segment

	for _, element := range elements {
		switch {
		case element.Paragraph != nil:
			if segment, ok := segmentFromParagraph(element.Paragraph); ok {
				segments = append(segments, segment)
			}

		case element.Table != nil:
			for _, row := range element.Table.TableRows {
				for _, cell := range row.TableCells {
					segments = append(segments, extractSegments(cell.Content)...)
				}
			}

		case element.SectionBreak != nil:
			segments = append(segments, domain.Segment{})
		}
	}

	return segments
}

// segmentFromParagraph joins the paragraph's text runs into one
// segment. Paragraphs that are blank after trimming produce nothing.
func segmentFromParagraph(paragraph *docs.Paragraph) (domain.Segment, bool) {
	var sb strings.Builder
	for _, element := range paragraph.Elements {
		if element.TextRun == nil || element.TextRun.Content == "" {
			continue
		}
		sb.WriteString(strings.TrimSuffix(element.TextRun.Content, "\n"))
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return domain.Segment{}, false
	}

	return domain.Segment{
		Text:    text,
		Heading: headingFromStyle(paragraph.ParagraphStyle, text),
	}, true
}

// headingFromStyle returns heading details when the paragraph uses a
// HEADING_N named style, or nil for body text.
func headingFromStyle(style *docs.ParagraphStyle, text string) *domain.Heading {
	if style == nil {
		return nil
	}

	match := headingStylePattern.FindStringSubmatch(style.NamedStyleType)
	if match == nil {
		return nil
	}

	level, err := strconv.Atoi(match[1])
	if err != nil {
		return nil
	}

	return &domain.Heading{
		Level: level,
		Text:  text,
		ID:    style.HeadingId,
	}
}

// joinSegments produces the full document text used for logging and
// fallbacks: segment texts in order separated by blank lines.
func joinSegments(segments []domain.Segment) string {
	parts := make([]string, len(segments))
	for i, segment := range segments {
		parts[i] = segment.Text
	}
	return strings.Join(parts, "\n\n")
}
