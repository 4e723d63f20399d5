package generator

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

type CodeGenerator struct{}

func NewCodeGenerator() *CodeGenerator {
	return &CodeGenerator{}
}

// GenerateBatchCode produces the receipt code that groups all sale rows
// committed in one batch.
func (g *CodeGenerator) GenerateBatchCode() (string, error) {
	randomBytes := make([]byte, 8)
	_, err := rand.Read(randomBytes)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("SB-%s", hex.EncodeToString(randomBytes)), nil
}
