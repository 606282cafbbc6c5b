package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"sinfony/config"

	"github.com/fogleman/gg"
)

// CertificateData is everything the renderer needs; eligibility is decided
// by the caller before invoking it.
type CertificateData struct {
	UserName          string
	ModuleTitle       string
	CompletionDate    string
	OrganizationName  string
	CertificateNumber string
}

// A4 landscape at 96 DPI.
const (
	certWidth  = 1123
	certHeight = 794
)

// RenderCertificate draws a completion certificate and writes it as a PNG
// under the configured output directory. Returns the file path.
func RenderCertificate(data CertificateData) (string, error) {
	dc := gg.NewContext(certWidth, certHeight)

	dc.SetRGB(1, 1, 1)
	dc.Clear()

	// Border
	dc.SetRGB255(33, 150, 243)
	dc.SetLineWidth(6)
	dc.DrawRectangle(30, 30, certWidth-60, certHeight-60)
	dc.Stroke()

	fontPath := config.AppConfig.CertFontPath
	centerX := float64(certWidth) / 2

	dc.SetRGB255(51, 51, 51)
	if err := dc.LoadFontFace(fontPath, 44); err != nil {
		return "", fmt.Errorf("loading certificate font: %w", err)
	}
	dc.DrawStringAnchored("CERTIFICATE OF COMPLETION", centerX, 180, 0.5, 0.5)

	if err := dc.LoadFontFace(fontPath, 24); err != nil {
		return "", err
	}
	dc.DrawStringAnchored("This certifies that", centerX, 280, 0.5, 0.5)

	dc.SetRGB255(76, 175, 80)
	if err := dc.LoadFontFace(fontPath, 40); err != nil {
		return "", err
	}
	dc.DrawStringAnchored(data.UserName, centerX, 350, 0.5, 0.5)

	dc.SetRGB255(51, 51, 51)
	if err := dc.LoadFontFace(fontPath, 24); err != nil {
		return "", err
	}
	dc.DrawStringAnchored("successfully completed the training module", centerX, 420, 0.5, 0.5)

	if err := dc.LoadFontFace(fontPath, 32); err != nil {
		return "", err
	}
	dc.DrawStringAnchored(data.ModuleTitle, centerX, 480, 0.5, 0.5)

	if err := dc.LoadFontFace(fontPath, 18); err != nil {
		return "", err
	}
	dc.SetRGB255(102, 102, 102)
	dc.DrawStringAnchored("Completed on: "+data.CompletionDate, centerX, 560, 0.5, 0.5)
	if data.OrganizationName != "" {
		dc.DrawStringAnchored(data.OrganizationName, centerX, 600, 0.5, 0.5)
	}
	dc.DrawStringAnchored("Certificate No: "+data.CertificateNumber, centerX, certHeight-80, 0.5, 0.5)

	if err := os.MkdirAll(config.AppConfig.CertOutDir, 0755); err != nil {
		return "", err
	}
	filePath := filepath.Join(config.AppConfig.CertOutDir, data.CertificateNumber+".png")
	if err := dc.SavePNG(filePath); err != nil {
		return "", err
	}
	return filePath, nil
}
