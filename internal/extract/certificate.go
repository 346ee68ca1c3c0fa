// Package extract reads the text of rendered certificate PDFs so a
// generated document can be cross-checked against its form data.
package extract

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/voltcraft/certify/internal/models"
)

// CertificateText extracts the plain text of the PDF at path.
func CertificateText(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read certificate: %w", err)
	}
	return certificateText(content)
}

func certificateText(content []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("open certificate PDF: %w", err)
	}
	var buf bytes.Buffer
	numPages := r.NumPage()
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("extract page %d: %w", i, err)
		}
		buf.WriteString(text)
		if i < numPages {
			buf.WriteByte('\n')
		}
	}
	return buf.String(), nil
}

// CrossCheck verifies that the key identity fields from the form appear in
// the rendered document text. It returns the labels of fields that are
// filled in on the form but absent from the document. Comparison is case
// and whitespace insensitive.
func CrossCheck(text string, form *models.ReportForm) []string {
	normalized := normalize(text)
	checks := []struct {
		label string
		value string
	}{
		{"Client name", form.ClientName},
		{"Installation address", form.InstallationAddress},
		{"Inspector name", form.InspectorName},
		{"Certificate reference", form.CertificateReference},
	}
	var missing []string
	for _, c := range checks {
		if !models.HasField(c.value) {
			continue
		}
		if !strings.Contains(normalized, normalize(c.value)) {
			missing = append(missing, c.label)
		}
	}
	return missing
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
