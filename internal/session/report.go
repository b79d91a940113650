package session

import (
	"errors"
	"fmt"
	"strings"
)

var ErrNoResults = errors.New("no analysis results to export")

// ExportReport renders the plain-text clinical report for the current
// results. The output is deterministic for a given session state.
func (c *Controller) ExportReport() (string, error) {
	if len(c.results) == 0 {
		return "", ErrNoResults
	}

	bmiLine := "N/A"
	if v, label, ok := c.BMI(); ok {
		bmiLine = fmt.Sprintf("%.1f (%s)", v, label)
	}

	pick := func(i int) string {
		if i < len(c.results) {
			return c.results[i]
		}
		return "None identified"
	}

	var symptoms strings.Builder
	for _, s := range c.SelectedSymptoms() {
		fmt.Fprintf(&symptoms, "- %s\n", strings.ReplaceAll(s, "_", " "))
	}

	report := fmt.Sprintf(`MED-AI CLINICAL SCREENING REPORT
================================
DATE: %s

PATIENT PROFILE:
----------------
Name:    %s
Gender:  %s
Age:     %d yrs
Weight:  %g kg
Height:  %g cm
BMI:     %s
Email:   %s
Phone:   %s
Address: %s, %s, %s

ANALYSIS RESULTS:
-----------------
Primary Indication: %s
Secondary Marker:   %s
Further Correlation: %s

GUIDANCE NOTES:
%s

SYMPTOMS ANALYZED:
%s
DISCLAIMER:
This report is informational and generated by a machine learning model.
It is not a medical diagnosis. Consult a healthcare professional immediately.
================================
`,
		c.now().Format("02/01/2006 15:04:05"),
		c.profile.Name,
		c.profile.Gender,
		c.profile.Age,
		c.profile.Weight,
		c.profile.Height,
		bmiLine,
		c.profile.Email,
		c.profile.Phone,
		c.profile.City, c.profile.State, c.profile.Country,
		pick(0), pick(1), pick(2),
		c.precautions,
		symptoms.String(),
	)

	return report, nil
}

// ReportFileName builds the suggested download name for an exported report.
func (c *Controller) ReportFileName() string {
	name := strings.Join(strings.Fields(c.profile.Name), "_")
	if name == "" {
		name = "User"
	}
	return fmt.Sprintf("MedAI_Report_%s.txt", name)
}
