// Package qrcode renders QR codes for purchase tracking links.
package qrcode

import (
	"strings"

	"storefront/config"
	"storefront/internal/domain/service"

	"github.com/pkg/errors"
	qrcode "github.com/skip2/go-qrcode"
)

const defaultSize = 256

type qrCodeService struct {
	size            int
	level           qrcode.RecoveryLevel
	trackingBaseURL string
}

// NewQRCodeService creates a QR code generator from configuration.
func NewQRCodeService(cfg *config.Config) (service.QRCodeService, error) {
	size := defaultSize
	level := qrcode.Medium
	baseURL := ""

	if cfg.QRCode != nil {
		if cfg.QRCode.Size > 0 {
			size = cfg.QRCode.Size
		}
		var err error
		level, err = parseRecoveryLevel(cfg.QRCode.ErrorCorrectionLevel)
		if err != nil {
			return nil, err
		}
		baseURL = strings.TrimRight(cfg.QRCode.TrackingBaseURL, "/")
	}

	if baseURL == "" {
		return nil, errors.New("tracking base url must be provided")
	}

	return &qrCodeService{
		size:            size,
		level:           level,
		trackingBaseURL: baseURL,
	}, nil
}

// GenerateTrackingQR encodes the public tracking URL as a PNG image.
func (s *qrCodeService) GenerateTrackingQR(trackingNumber string) ([]byte, error) {
	url := s.trackingBaseURL + "/track?number=" + trackingNumber

	png, err := qrcode.Encode(url, s.level, s.size)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode qr code")
	}

	return png, nil
}

func parseRecoveryLevel(level string) (qrcode.RecoveryLevel, error) {
	switch strings.ToUpper(level) {
	case "", "M":
		return qrcode.Medium, nil
	case "L":
		return qrcode.Low, nil
	case "Q":
		return qrcode.High, nil
	case "H":
		return qrcode.Highest, nil
	default:
		return qrcode.Medium, errors.Errorf("unknown error correction level: %s", level)
	}
}
