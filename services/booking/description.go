package booking

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"studiobook/models"
)

const mib = 1024 * 1024

// taskSummary is the machine-readable block at the end of a task description.
// Field order is the output order.
type taskSummary struct {
	Company  string   `json:"company"`
	Goal     string   `json:"goal"`
	Action   string   `json:"action"`
	Services []string `json:"services"`
	Audience string   `json:"audience"`
	Style    string   `json:"style"`
	Colors   string   `json:"colors"`
	Budget   string   `json:"budget"`
}

// TaskName is the ClickUp task title for a submission.
func TaskName(p models.SubmissionPayload) string {
	who := p.FormData.Name
	if p.IntakeData != nil && strings.TrimSpace(p.IntakeData.CompanyName) != "" {
		who = p.IntakeData.CompanyName
	}
	return "Intake call: " + who
}

// BuildTaskDescription renders the Markdown task body. It depends only on
// its inputs; the sole timestamp is the one parsed from SelectedDateTime.
func BuildTaskDescription(p models.SubmissionPayload, aiPrompt string, loc *time.Location) string {
	var b strings.Builder

	writeMeetingHeader(&b, p.SelectedDateTime, loc)
	writePersonalInfo(&b, p.FormData)

	intake := p.IntakeData
	if intake != nil {
		writeProjectInfo(&b, intake)
		writeServices(&b, intake.Services)
		if intake.HasReferences() {
			writeReferences(&b, intake)
		}
		if len(intake.LogoFiles) > 0 {
			writeLogoManifest(&b, intake.LogoFiles)
		}
	}

	writeSummary(&b, intake)

	if aiPrompt != "" {
		b.WriteString("\n## AI website prompt\n\n```\n")
		b.WriteString(strings.TrimSpace(aiPrompt))
		b.WriteString("\n```\n")
	}
	return b.String()
}

func writeMeetingHeader(b *strings.Builder, selected string, loc *time.Location) {
	b.WriteString("# Intake call\n\n")
	t, err := time.Parse(time.RFC3339, selected)
	if err != nil {
		fmt.Fprintf(b, "**Meeting:** %s\n", selected)
		return
	}
	local := t.In(loc)
	fmt.Fprintf(b, "**Date:** %s\n", local.Format("Monday 2 January 2006"))
	fmt.Fprintf(b, "**Time:** %s (%s)\n", local.Format("15:04"), loc.String())
}

func writePersonalInfo(b *strings.Builder, c models.ContactInfo) {
	b.WriteString("\n## Contact\n\n")
	fmt.Fprintf(b, "- **Name:** %s\n", c.Name)
	fmt.Fprintf(b, "- **Email:** %s\n", c.Email)
	fmt.Fprintf(b, "- **Phone:** %s\n", orDash(c.Phone))
}

func writeProjectInfo(b *strings.Builder, in *models.BookingIntake) {
	b.WriteString("\n## Project\n\n")
	fmt.Fprintf(b, "- **Company:** %s\n", orDash(in.CompanyName))
	fmt.Fprintf(b, "- **Project type:** %s\n", projectTypeLabel(in.ProjectType))
	if in.ProjectType == models.ProjectTypeExisting && in.CurrentWebsite != "" {
		fmt.Fprintf(b, "- **Current website:** %s\n", in.CurrentWebsite)
	}
	fmt.Fprintf(b, "- **Goal:** %s\n", orDash(in.Goal))
	fmt.Fprintf(b, "- **Desired visitor action:** %s\n", orDash(in.DesiredAction))
	fmt.Fprintf(b, "- **Target audience:** %s\n", orDash(in.Audience))
	fmt.Fprintf(b, "- **Style:** %s\n", orDash(in.Style))
	fmt.Fprintf(b, "- **Colors:** %s\n", orDash(in.Colors))
	fmt.Fprintf(b, "- **Budget:** %s\n", orDash(in.Budget))
}

func writeServices(b *strings.Builder, services []string) {
	b.WriteString("\n## Services / offer\n\n")
	if len(services) == 0 {
		b.WriteString("- none specified\n")
		return
	}
	for _, s := range services {
		fmt.Fprintf(b, "- %s\n", s)
	}
}

func writeReferences(b *strings.Builder, in *models.BookingIntake) {
	b.WriteString("\n## References\n\n")
	if in.References != "" {
		fmt.Fprintf(b, "- **Reference sites:** %s\n", in.References)
	}
	if in.InspirationURLs != "" {
		fmt.Fprintf(b, "- **Inspiration:** %s\n", in.InspirationURLs)
	}
	if in.ExtraNotes != "" {
		fmt.Fprintf(b, "- **Notes:** %s\n", in.ExtraNotes)
	}
}

func writeLogoManifest(b *strings.Builder, files []models.LogoFile) {
	b.WriteString("\n## Logo files\n\n")
	for _, f := range files {
		fmt.Fprintf(b, "- %s (%.2f MB)\n", f.Name, float64(f.Size)/mib)
	}
}

func writeSummary(b *strings.Builder, in *models.BookingIntake) {
	summary := taskSummary{Services: []string{}}
	if in != nil {
		summary = taskSummary{
			Company:  in.CompanyName,
			Goal:     in.Goal,
			Action:   in.DesiredAction,
			Services: append([]string{}, in.Services...),
			Audience: in.Audience,
			Style:    in.Style,
			Colors:   in.Colors,
			Budget:   in.Budget,
		}
	}
	// The block is read by people in ClickUp, so "&" and "<" stay literal.
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	// Encoding a struct of strings cannot fail.
	_ = enc.Encode(summary)
	b.WriteString("\n## Summary\n\n```json\n")
	b.Write(bytes.TrimRight(buf.Bytes(), "\n"))
	b.WriteString("\n```\n")
}

func projectTypeLabel(t string) string {
	switch t {
	case models.ProjectTypeNew:
		return "New website"
	case models.ProjectTypeExisting:
		return "Redesign of an existing website"
	default:
		return orDash(t)
	}
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
