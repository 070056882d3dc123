// Package docgen assembles the branded candidate resume document.
//
// The layout is fixed: page border, centered logo (or text mark), name/title
// line, contact line, the five content sections in order, confidentiality
// footer. Only non-empty fields are rendered.
package docgen

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	uo "github.com/unidoc/unioffice"
	"github.com/unidoc/unioffice/color"
	"github.com/unidoc/unioffice/common"
	"github.com/unidoc/unioffice/document"
	"github.com/unidoc/unioffice/measurement"
	"github.com/unidoc/unioffice/schema/soo/wml"

	"github.com/krifyhr/resume-converter/pkg/types"
)

const (
	fontFamily    = "Segoe UI"
	textMark      = "KRIFY"
	footerNotice  = "Private and Confidential Document – Intended for authorized organizations only."
	footerContact = "info@krify.com"

	pageBorderHex = "2980B9"
)

var (
	brandColor = color.RGB(0x00, 0x37, 0x65)
	mutedColor = color.RGB(0x7F, 0x8C, 0x8D)
	bodyColor  = color.RGB(0x34, 0x49, 0x5E)
)

var logoExtensions = []string{"png", "jpg", "jpeg", "bmp"}

var titleLabelRe = regexp.MustCompile(`(?i)^(PROFESSIONAL TITLE/DESIGNATION:|TITLE:|DESIGNATION:)\s*`)

// sections fixes the render order of the free-text blocks.
var sections = []struct {
	heading string
	value   func(types.CandidateRecord) string
}{
	{"PROFILE SUMMARY", func(r types.CandidateRecord) string { return r.ProfileSummary }},
	{"PROFESSIONAL EXPERIENCE", func(r types.CandidateRecord) string { return r.ProfessionalExperience }},
	{"PROJECT EXPERIENCE", func(r types.CandidateRecord) string { return r.ProjectExperience }},
	{"TECHNICAL SKILLS", func(r types.CandidateRecord) string { return r.TechnicalSkills }},
	{"SOFT SKILLS", func(r types.CandidateRecord) string { return r.SoftSkills }},
}

type Builder struct {
	staticDir string
}

func NewBuilder(staticDir string) *Builder {
	return &Builder{staticDir: staticDir}
}

// Build renders the record into a Word document at outPath.
func (b *Builder) Build(rec types.CandidateRecord, outPath string) error {
	doc := b.Compose(rec)
	defer doc.Close()

	if err := doc.SaveToFile(outPath); err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}
	return nil
}

// Compose assembles the in-memory document. Split from Build so the content
// rules can be inspected without touching the filesystem.
func (b *Builder) Compose(rec types.CandidateRecord) *document.Document {
	doc := document.New()

	b.setupPage(doc)
	b.addLogo(doc)
	b.addNameLine(doc, rec)
	b.addContactLine(doc, rec)
	b.addSections(doc, rec)
	b.addFooter(doc)

	return doc
}

// setupPage applies the uniform margin and the single-line page border.
func (b *Builder) setupPage(doc *document.Document) {
	section := doc.BodySection()
	section.SetPageMargins(
		0.8*measurement.Inch, 0.8*measurement.Inch,
		0.8*measurement.Inch, 0.8*measurement.Inch,
		0.5*measurement.Inch, 0.5*measurement.Inch, 0)

	// No high-level API for page borders; set them on the raw sectPr.
	pg := wml.NewCT_PageBorders()
	pg.OffsetFromAttr = wml.ST_PageBorderOffsetPage

	pg.Top = wml.NewCT_TopPageBorder()
	pg.Top.ValAttr = wml.ST_BorderSingle
	pg.Top.SzAttr = uo.Uint64(8)
	pg.Top.SpaceAttr = uo.Uint64(24)
	pg.Top.ColorAttr = &wml.ST_HexColor{ST_HexColorRGB: uo.String(pageBorderHex)}

	pg.Bottom = wml.NewCT_BottomPageBorder()
	pg.Bottom.ValAttr = wml.ST_BorderSingle
	pg.Bottom.SzAttr = uo.Uint64(8)
	pg.Bottom.SpaceAttr = uo.Uint64(24)
	pg.Bottom.ColorAttr = &wml.ST_HexColor{ST_HexColorRGB: uo.String(pageBorderHex)}

	pg.Left = wml.NewCT_PageBorder()
	pg.Left.ValAttr = wml.ST_BorderSingle
	pg.Left.SzAttr = uo.Uint64(8)
	pg.Left.SpaceAttr = uo.Uint64(24)
	pg.Left.ColorAttr = &wml.ST_HexColor{ST_HexColorRGB: uo.String(pageBorderHex)}

	pg.Right = wml.NewCT_PageBorder()
	pg.Right.ValAttr = wml.ST_BorderSingle
	pg.Right.SzAttr = uo.Uint64(8)
	pg.Right.SpaceAttr = uo.Uint64(24)
	pg.Right.ColorAttr = &wml.ST_HexColor{ST_HexColorRGB: uo.String(pageBorderHex)}

	section.X().PgBorders = pg
}

// addLogo centers the brand logo, trying the known image extensions in order;
// without one it falls back to the bold text mark.
func (b *Builder) addLogo(doc *document.Document) {
	para := doc.AddParagraph()
	para.Properties().SetAlignment(wml.ST_JcCenter)
	para.Properties().Spacing().SetAfter(12 * measurement.Point)

	for _, ext := range logoExtensions {
		logoPath := filepath.Join(b.staticDir, "krify_logo."+ext)
		if _, err := os.Stat(logoPath); err != nil {
			continue
		}
		img, err := common.ImageFromFile(logoPath)
		if err != nil {
			slog.Warn("failed to load logo image", "path", logoPath, "error", err)
			continue
		}
		ref, err := doc.AddImage(img)
		if err != nil {
			slog.Warn("failed to add logo image", "path", logoPath, "error", err)
			continue
		}
		inline, err := para.AddRun().AddDrawingInline(ref)
		if err != nil {
			slog.Warn("failed to place logo image", "path", logoPath, "error", err)
			continue
		}
		width := measurement.Distance(1 * measurement.Inch)
		height := width
		if img.Size.X > 0 {
			height = measurement.Distance(float64(width) * float64(img.Size.Y) / float64(img.Size.X))
		}
		inline.SetSize(width, height)
		return
	}

	run := para.AddRun()
	run.AddText(textMark)
	run.Properties().SetFontFamily(fontFamily)
	run.Properties().SetBold(true)
	run.Properties().SetSize(20 * measurement.Point)
	run.Properties().SetColor(brandColor)
}

func (b *Builder) addNameLine(doc *document.Document, rec types.CandidateRecord) {
	para := doc.AddParagraph()
	para.Properties().SetAlignment(wml.ST_JcCenter)
	para.Properties().Spacing().SetAfter(10 * measurement.Point)

	run := para.AddRun()
	run.AddText(DisplayName(rec))
	run.Properties().SetFontFamily(fontFamily)
	run.Properties().SetBold(true)
	run.Properties().SetSize(16 * measurement.Point)
	run.Properties().SetColor(brandColor)
}

func (b *Builder) addContactLine(doc *document.Document, rec types.CandidateRecord) {
	contact := ContactLine(rec)
	if contact == "" {
		return
	}

	para := doc.AddParagraph()
	para.Properties().SetAlignment(wml.ST_JcCenter)
	para.Properties().Spacing().SetAfter(20 * measurement.Point)

	run := para.AddRun()
	run.AddText(contact)
	run.Properties().SetFontFamily(fontFamily)
	run.Properties().SetSize(10 * measurement.Point)
	run.Properties().SetColor(mutedColor)
}

func (b *Builder) addSections(doc *document.Document, rec types.CandidateRecord) {
	// One shared bullet definition for every bulleted content line.
	nd := doc.Numbering.AddDefinition()
	lvl := nd.AddLevel()
	lvl.SetFormat(wml.ST_NumberFormatBullet)
	lvl.SetAlignment(wml.ST_JcLeft)
	lvl.SetText("•")
	lvl.Properties().SetLeftIndent(0.25 * measurement.Inch)

	for _, s := range sections {
		content := s.value(rec)
		if content == "" {
			continue
		}

		heading := doc.AddParagraph()
		heading.Properties().Spacing().SetBefore(14 * measurement.Point)
		heading.Properties().Spacing().SetAfter(8 * measurement.Point)
		run := heading.AddRun()
		run.AddText(s.heading)
		run.Properties().SetFontFamily(fontFamily)
		run.Properties().SetBold(true)
		run.Properties().SetSize(13 * measurement.Point)
		run.Properties().SetColor(brandColor)

		for _, line := range strings.Split(content, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}

			para := doc.AddParagraph()
			if IsBullet(line) {
				para.SetNumberingDefinition(nd)
				para.SetNumberingLevel(0)
			}
			lr := para.AddRun()
			lr.AddText(line)
			lr.Properties().SetFontFamily(fontFamily)
			lr.Properties().SetSize(10 * measurement.Point)
			lr.Properties().SetColor(bodyColor)
		}
	}
}

func (b *Builder) addFooter(doc *document.Document) {
	doc.AddParagraph()
	doc.AddParagraph()

	notice := doc.AddParagraph()
	notice.Properties().SetAlignment(wml.ST_JcLeft)
	run := notice.AddRun()
	run.AddText(footerNotice)
	run.Properties().SetFontFamily(fontFamily)
	run.Properties().SetBold(true)
	run.Properties().SetSize(9 * measurement.Point)

	contact := doc.AddParagraph()
	contact.Properties().SetAlignment(wml.ST_JcLeft)
	cr := contact.AddRun()
	cr.AddText(footerContact)
	cr.Properties().SetFontFamily(fontFamily)
	cr.Properties().SetSize(9 * measurement.Point)
}

// DisplayName renders the centered headline: the uppercased name, joined with
// the uppercased title when one is present. Some models echo the label back
// inside the title value, so a leading "professional title/designation:",
// "title:" or "designation:" prefix is stripped first.
func DisplayName(rec types.CandidateRecord) string {
	name := strings.ToUpper(strings.TrimSpace(rec.FullName))
	title := titleLabelRe.ReplaceAllString(strings.TrimSpace(rec.ProfessionalTitle), "")
	title = strings.ToUpper(strings.TrimSpace(title))
	if title != "" {
		return name + " – " + title
	}
	return name
}

// ContactLine joins the non-empty contact fields with " | ", or returns ""
// when there is nothing to show.
func ContactLine(rec types.CandidateRecord) string {
	var parts []string
	for _, v := range []string{rec.Email, rec.Phone, rec.Location} {
		if v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " | ")
}

// IsBullet reports whether a content line should render as a list item.
func IsBullet(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, "-") || strings.HasPrefix(trimmed, "•")
}
