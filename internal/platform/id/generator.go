package id

import (
	"fmt"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// CodeAlphabet omits characters that are easy to misread when a code is
// shared by hand (0/O, 1/I).
const CodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const DefaultCodeLength = 8

// Generator creates opaque IDs suitable for external references.
type Generator interface {
	NewID() (string, error)
}

// CodeGenerator creates short human-shareable join codes.
type CodeGenerator interface {
	NewCode() (string, error)
}

type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) NewID() (string, error) {
	v, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate uuid: %w", err)
	}
	return v.String(), nil
}

type NanoCodeGenerator struct {
	length int
}

func NewNanoCodeGenerator(length int) *NanoCodeGenerator {
	if length <= 0 {
		length = DefaultCodeLength
	}
	return &NanoCodeGenerator{length: length}
}

func (g *NanoCodeGenerator) NewCode() (string, error) {
	code, err := gonanoid.Generate(CodeAlphabet, g.length)
	if err != nil {
		return "", fmt.Errorf("generate league code: %w", err)
	}
	return code, nil
}
