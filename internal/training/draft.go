package training

import (
	"fmt"
	"math"
	"strings"

	"github.com/MarcoPoloResearchLab/gripmetrics/internal/ids"
)

// BlockInput is the raw block form as collected by the presentation layer.
type BlockInput struct {
	Category       string
	Qty            int
	IntensityType  string
	IntensityValue string
	Minutes        float64
	Notes          string
}

// Draft holds the blocks of a workout that is still being authored.
// A Draft belongs to one editing session and is not safe for concurrent use.
type Draft struct {
	idProvider ids.Provider
	blocks     []Block
}

// NewDraft returns an empty draft that assigns block ids from idProvider.
func NewDraft(idProvider ids.Provider) *Draft {
	return &Draft{idProvider: idProvider}
}

// AddBlock validates input, applies defaults and appends the block.
// Qty falls back to 1 when not positive; minutes fall back to 0 when negative or NaN.
func (d *Draft) AddBlock(input BlockInput) (Block, error) {
	category, err := ParseCategory(input.Category)
	if err != nil {
		return Block{}, err
	}
	intensityType, err := ParseIntensityType(input.IntensityType)
	if err != nil {
		return Block{}, err
	}
	if d.idProvider == nil {
		return Block{}, errMissingIDProvider
	}
	id, err := d.idProvider.NewID()
	if err != nil {
		return Block{}, err
	}

	qty := input.Qty
	if qty <= 0 {
		qty = 1
	}
	minutes := input.Minutes
	if math.IsNaN(minutes) || math.IsInf(minutes, 0) || minutes < 0 {
		minutes = 0
	}

	block := Block{
		ID:             id,
		Category:       category,
		Qty:            qty,
		IntensityType:  intensityType,
		IntensityValue: strings.TrimSpace(input.IntensityValue),
		Minutes:        minutes,
		Notes:          strings.TrimSpace(input.Notes),
	}
	d.blocks = append(d.blocks, block)
	return block, nil
}

// RemoveBlock drops the pending block at index.
func (d *Draft) RemoveBlock(index int) error {
	if index < 0 || index >= len(d.blocks) {
		return newValidationError(CodeBlockIndex, fmt.Sprintf("No pending block at position %d.", index))
	}
	d.blocks = append(d.blocks[:index], d.blocks[index+1:]...)
	return nil
}

// Blocks returns a copy of the pending blocks in authoring order.
func (d *Draft) Blocks() []Block {
	return append([]Block(nil), d.blocks...)
}

// Len reports the number of pending blocks.
func (d *Draft) Len() int {
	return len(d.blocks)
}

// Reset discards every pending block.
func (d *Draft) Reset() {
	d.blocks = nil
}
