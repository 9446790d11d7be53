// Package letters renders compliance reminder letters as PDFs and uploads
// them to object storage.
package letters

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"time"

	"github.com/jung-kurt/gofpdf"

	"mawared-backend/internal/autopilot"
	"mawared-backend/internal/storage"
)

const arabicFontFamily = "letter-arabic"

// Renderer implements autopilot.LetterRenderer over a storage.Store.
type Renderer struct {
	store          storage.Store
	arabicFontPath string
}

// NewRenderer builds a Renderer. arabicFontPath may be empty, in which case
// Arabic letters fall back to the built-in core font (glyph coverage is
// limited; configure LETTER_ARABIC_FONT_PATH in production).
func NewRenderer(store storage.Store, arabicFontPath string) *Renderer {
	return &Renderer{store: store, arabicFontPath: arabicFontPath}
}

// Render produces one letter in one language and returns its storage path.
func (r *Renderer) Render(ctx context.Context, req autopilot.LetterRequest) (string, error) {
	if req.Employee.IqamaExpiry == nil {
		return "", fmt.Errorf("employee %s has no iqama expiry", req.Employee.EmployeeNo)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 25, 20)
	pdf.AddPage()

	family := "Arial"
	text := func(s string) string { return s }
	if req.Lang == "ar" && r.arabicFontPath != "" {
		// Register the same TTF for every style we use below.
		for _, style := range []string{"", "B", "I"} {
			pdf.AddUTF8Font(arabicFontFamily, style, r.arabicFontPath)
		}
		family = arabicFontFamily
		pdf.RTL()
	} else {
		text = pdf.UnicodeTranslatorFromDescriptor("")
	}

	expiry := *req.Employee.IqamaExpiry
	daysLeft := int(math.Ceil(expiry.Sub(req.AsOf).Hours() / 24))

	header, subject, body := letterContent(req, expiry, daysLeft)

	pdf.SetFont(family, "B", 14)
	pdf.MultiCell(0, 8, text(header), "", "C", false)
	pdf.Ln(6)

	pdf.SetFont(family, "B", 12)
	pdf.MultiCell(0, 7, text(subject), "", "", false)
	pdf.Ln(4)

	pdf.SetFont(family, "", 11)
	for _, line := range body {
		pdf.MultiCell(0, 6, text(line), "", "", false)
		pdf.Ln(2)
	}

	pdf.Ln(8)
	pdf.SetFont(family, "I", 9)
	pdf.MultiCell(0, 5, text(req.Footer), "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return "", fmt.Errorf("render pdf: %w", err)
	}

	path := autopilot.LetterStoragePath(req.Tenant.ID, req.Employee.ID, req.Type, req.Lang, req.AsOf)
	if _, err := r.store.Save(ctx, path, &buf, "application/pdf"); err != nil {
		return "", fmt.Errorf("store letter: %w", err)
	}
	return path, nil
}

func letterContent(req autopilot.LetterRequest, expiry time.Time, daysLeft int) (header, subject string, body []string) {
	expiryStr := expiry.Format("2006-01-02")

	if req.Lang == "ar" {
		header = req.Tenant.NameAr
		subject = "الموضوع: تذكير بتجديد الإقامة"
		body = []string{
			fmt.Sprintf("الموظف: %s (الرقم الوظيفي %s)", req.Employee.FullNameAr, req.Employee.EmployeeNo),
			fmt.Sprintf("تنتهي صلاحية إقامتكم بتاريخ %s، أي بعد %d يومًا.", expiryStr, daysLeft),
			"يرجى البدء بإجراءات التجديد في أقرب وقت ممكن لتفادي الغرامات النظامية.",
			"لأي استفسار يرجى التواصل مع إدارة الموارد البشرية.",
		}
		return header, subject, body
	}

	header = req.Tenant.NameEn
	subject = "Subject: Iqama Renewal Reminder"
	body = []string{
		fmt.Sprintf("Employee: %s (No. %s)", req.Employee.FullNameEn, req.Employee.EmployeeNo),
		fmt.Sprintf("Your Iqama (residency permit) expires on %s, which is %d day(s) from today.", expiryStr, daysLeft),
		"Please start the renewal process as soon as possible to avoid statutory fines.",
		"For any questions, contact the Human Resources department.",
	}
	return header, subject, body
}
