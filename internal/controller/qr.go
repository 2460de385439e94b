package controller

import (
	"fmt"

	"github.com/skip2/go-qrcode"
	"github.com/tomz197/meteordash/internal/draw"
)

// PairingQR renders content as a QR code of half-block text lines. Light
// modules are drawn as blocks, which suits a dark terminal.
func PairingQR(content string) ([]string, error) {
	q, err := qrcode.New(content, qrcode.Low)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	// Keep a one-module quiet zone instead of the default four.
	q.DisableBorder = true
	bits := q.Bitmap()

	size := len(bits) + 2
	inverted := make([][]bool, size)
	for y := range inverted {
		inverted[y] = make([]bool, size)
		for x := range inverted[y] {
			inside := y > 0 && y <= len(bits) && x > 0 && x <= len(bits)
			inverted[y][x] = !inside || !bits[y-1][x-1]
		}
	}
	return draw.HalfBlocks(inverted), nil
}
