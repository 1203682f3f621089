// Package export renders a story thread as a printable document.
package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/ashureev/storyweaver/internal/domain"
	"github.com/ashureev/storyweaver/internal/visual"
)

const (
	pageMargin = 18.0
	lineHeight = 6.0
)

// Filename returns a download name for the character's story.
func Filename(profile domain.CharacterProfile) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(profile.Name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			sb.WriteRune('-')
		}
	}
	name := strings.Trim(sb.String(), "-")
	if name == "" {
		name = "story"
	}
	return name + "-storyweaver.pdf"
}

// WritePDF writes the profile and every scene, in thread order, as a PDF.
func WritePDF(w io.Writer, profile domain.CharacterProfile, scenes []domain.StoryScene) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.SetTitle(profile.Name+" - StoryWeaver", true)
	pdf.SetCreator("StoryWeaver", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 22)
	pdf.MultiCell(0, 10, tr(profile.Name), "", "L", false)

	pdf.SetFont("Helvetica", "I", 11)
	pdf.SetTextColor(90, 90, 110)
	pdf.MultiCell(0, lineHeight, tr(visual.TraitSummary(profile.Traits)+" / "+profile.Role), "", "L", false)
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "", 11)
	for _, field := range [][2]string{
		{"Age", profile.Age},
		{"Role", profile.Role},
		{"Traits", profile.Traits},
		{"Backstory", profile.Backstory},
	} {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(28, lineHeight, tr(field[0]), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, lineHeight, tr(field[1]), "", "L", false)
	}

	if len(scenes) == 0 {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "I", 11)
		pdf.MultiCell(0, lineHeight, "No scenes have been generated yet.", "", "L", false)
	}

	for i, scene := range scenes {
		figure := visual.ActionFigure(scene)
		r, g, b := hexRGB(figure.Preset.Accent)

		pdf.Ln(6)
		pdf.SetFont("Helvetica", "B", 14)
		pdf.SetTextColor(r, g, b)
		pdf.MultiCell(0, 8, tr(fmt.Sprintf("Scene %d: %s", i+1, figure.Preset.Label)), "", "L", false)
		pdf.SetTextColor(0, 0, 0)

		pdf.SetFont("Helvetica", "I", 10)
		pdf.MultiCell(0, 5, tr(scene.Prompt+"  ("+scene.CreatedAt.Format("Jan 2, 2006 15:04 MST")+")"), "", "L", false)
		pdf.Ln(2)

		pdf.SetFont("Times", "", 12)
		for _, para := range strings.Split(scene.Content, "\n") {
			if para = strings.TrimSpace(para); para == "" {
				continue
			}
			pdf.MultiCell(0, lineHeight, tr(para), "", "J", false)
			pdf.Ln(2)
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

func hexRGB(hex string) (int, int, int) {
	v, err := strconv.ParseUint(strings.TrimPrefix(hex, "#"), 16, 32)
	if err != nil || len(strings.TrimPrefix(hex, "#")) != 6 {
		return 0, 0, 0
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}
