package booking

import (
	"fmt"
	"strings"

	"studiobook/models"
)

// BuildIntakePrompt turns the intake answers into the user message for the
// prompt generator.
func BuildIntakePrompt(in *models.BookingIntake) string {
	var b strings.Builder
	b.WriteString("Create a prompt for an AI website builder based on this client intake.\n\n")

	line := func(label, value string) {
		if strings.TrimSpace(value) != "" {
			fmt.Fprintf(&b, "%s: %s\n", label, value)
		}
	}
	line("Company", in.CompanyName)
	if in.ProjectType != "" {
		line("Project type", projectTypeLabel(in.ProjectType))
	}
	line("Current website", in.CurrentWebsite)
	line("Main goal of the website", in.Goal)
	line("What visitors should do", in.DesiredAction)
	if len(in.Services) > 0 {
		line("Services offered", strings.Join(in.Services, ", "))
	}
	line("Target audience", in.Audience)
	line("Preferred style", in.Style)
	line("Brand colors", in.Colors)
	line("Budget", in.Budget)
	line("Reference websites", in.References)
	line("Inspiration", in.InspirationURLs)
	line("Additional notes", in.ExtraNotes)
	if len(in.LogoFiles) > 0 {
		b.WriteString("The client has a logo.\n")
	}

	b.WriteString("\nDescribe the page sections, tone of voice, layout, typography and color usage. ")
	b.WriteString("Write the prompt in English.")
	return b.String()
}
