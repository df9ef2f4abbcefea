package lottery

import (
	"bytes"
	"fmt"
	"math/big"
	"time"

	"fortuneblock/application/dto"
	"fortuneblock/domain/utils"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	log "github.com/sirupsen/logrus"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
)

// BoardColumn defines a column in the lottery board
type BoardColumn struct {
	Header    string
	XPosition int
	ColorRGB  [3]float64
}

// BoardStyle defines the visual style of the board
type BoardStyle struct {
	Width     int
	MinHeight int
	Padding   int
	RowHeight int
	MaxRows   int
}

// BoardImageGenerator renders the active lotteries as a PNG table
type BoardImageGenerator struct {
	style BoardStyle
}

// NewBoardImageGenerator creates a new image generator with default style
func NewBoardImageGenerator() *BoardImageGenerator {
	return &BoardImageGenerator{
		style: BoardStyle{
			Width:     420,
			MinHeight: 120,
			Padding:   15,
			RowHeight: 26,
			MaxRows:   15,
		},
	}
}

// Generate renders one row per lottery. The largest prize pool is highlighted.
func (g *BoardImageGenerator) Generate(views []dto.LotteryDTO) ([]byte, error) {
	start := time.Now()
	defer func() {
		log.WithField("duration_ms", time.Since(start).Milliseconds()).
			WithField("row_count", len(views)).
			Debug("Lottery board image generation completed")
	}()

	if len(views) > g.style.MaxRows {
		views = views[:g.style.MaxRows]
	}

	columns := []BoardColumn{
		{Header: "#", XPosition: g.style.Padding, ColorRGB: [3]float64{0.85, 0.85, 0.9}},
		{Header: "Prize", XPosition: g.style.Padding + 50, ColorRGB: [3]float64{0.85, 1.0, 0.85}},
		{Header: "Players", XPosition: g.style.Padding + 170, ColorRGB: [3]float64{0.85, 0.85, 1.0}},
		{Header: "Ends In", XPosition: g.style.Padding + 260, ColorRGB: [3]float64{1.0, 1.0, 1.0}},
	}

	leader := largestPool(views)

	// Header (25px) + header padding (30px) + rows + bottom padding (15px)
	height := 25 + 30 + len(views)*g.style.RowHeight + 15
	if height < g.style.MinHeight {
		height = g.style.MinHeight
	}

	dc := gg.NewContext(g.style.Width, height)
	dc.SetFillRule(gg.FillRuleWinding)

	for i := 0; i < height; i++ {
		t := float64(i) / float64(height)
		dc.SetRGB(0.02+t*0.03, 0.02+t*0.05, 0.05+t*0.1)
		dc.DrawLine(0, float64(i), float64(g.style.Width), float64(i))
		dc.Stroke()
	}

	face, err := loadFont(gomono.TTF, 11)
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}
	dc.SetFontFace(face)

	y := float64(25)

	dc.SetRGBA(0.3, 0.3, 0.4, 0.4)
	dc.DrawRectangle(0, y-15, float64(g.style.Width), 20)
	dc.Fill()

	dc.SetRGB(1.0, 1.0, 1.0)
	for _, col := range columns {
		drawSharpText(dc, col.Header, float64(col.XPosition), y)
	}

	dc.SetRGBA(0.6, 0.6, 0.7, 0.7)
	dc.SetLineWidth(1)
	dc.DrawLine(0, y+8, float64(g.style.Width), y+8)
	dc.Stroke()

	if len(views) == 0 {
		dc.SetRGB(0.7, 0.7, 0.7)
		text := "No active lotteries"
		w, _ := dc.MeasureString(text)
		drawSharpText(dc, text, (float64(g.style.Width)-w)/2, y+45)
		return encodePNG(dc)
	}

	boldFace, err := loadFont(gobold.TTF, 11)
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}

	y += 30
	for i, view := range views {
		if i == leader {
			dc.SetRGBA(1, 0.84, 0, 0.1)
		} else {
			dc.SetRGBA(0.5, 0.5, 0.6, 0.02)
		}
		dc.DrawRectangle(0, y-15, float64(g.style.Width), float64(g.style.RowHeight))
		dc.Fill()

		prize, ok := new(big.Int).SetString(view.PrizePoolWei, 10)
		if !ok {
			prize = new(big.Int)
		}
		cells := []string{
			fmt.Sprintf("%d", view.ID),
			utils.FormatEtherShort(prize),
			fmt.Sprintf("%d", view.ParticipantCount),
			view.TimeRemaining,
		}

		for j, col := range columns {
			dc.SetRGB(col.ColorRGB[0], col.ColorRGB[1], col.ColorRGB[2])
			if j == 3 && view.Ended {
				dc.SetRGB(1.0, 0.4, 0.4)
			}
			if i == leader && j == 1 {
				dc.SetFontFace(boldFace)
				dc.SetRGB(1, 0.84, 0)
			}
			drawSharpText(dc, cells[j], float64(col.XPosition), y)
			dc.SetFontFace(face)
		}

		y += float64(g.style.RowHeight)
	}

	return encodePNG(dc)
}

// largestPool returns the index of the row with the largest prize pool, or -1
// when every pool is empty
func largestPool(views []dto.LotteryDTO) int {
	leader := -1
	best := new(big.Int)
	for i, view := range views {
		pool, ok := new(big.Int).SetString(view.PrizePoolWei, 10)
		if !ok {
			continue
		}
		if pool.Cmp(best) > 0 {
			best = pool
			leader = i
		}
	}
	return leader
}

func encodePNG(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// drawSharpText draws text with a faint shadow so it stays readable on the gradient
func drawSharpText(dc *gg.Context, text string, x, y float64) {
	dc.Push()
	dc.SetRGBA(0, 0, 0, 0.5)
	dc.DrawString(text, x+0.5, y+0.5)
	dc.Pop()

	dc.DrawString(text, x, y)
}

// loadFont loads a font from byte data
func loadFont(fontData []byte, size float64) (font.Face, error) {
	f, err := truetype.Parse(fontData)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}
