package service

// QRCodeService generates QR codes for purchase tracking links.
type QRCodeService interface {
	// GenerateTrackingQR returns a PNG image encoding the public tracking URL
	// for the given tracking number.
	GenerateTrackingQR(trackingNumber string) ([]byte, error)
}
