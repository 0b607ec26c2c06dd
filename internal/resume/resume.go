package resume

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/spigell/ats-matcher/internal/keywords"
	"github.com/spigell/ats-matcher/internal/utils"
)

// Resume is the text of a resume and the keywords found in it.
type Resume struct {
	Path     string
	Text     string
	Keywords keywords.Set
}

// Load reads the resume at path, cleans its text and extracts keywords with the vocabulary.
func Load(path string, vocabulary *keywords.Vocabulary) (*Resume, error) {
	text, err := ReadText(path)
	if err != nil {
		return nil, err
	}

	cleaned := CleanText(text)

	return &Resume{
		Path:     path,
		Text:     cleaned,
		Keywords: vocabulary.Extract(cleaned),
	}, nil
}

// ReadText returns raw text of a PDF, plain text or markdown resume.
func ReadText(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".pdf":
		return readPDF(path)
	case ".txt", ".md", ".text":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading resume %q: %w", path, err)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("unsupported resume format %q", ext)
	}
}

func readPDF(path string) (string, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening pdf %q: %w", path, err)
	}
	defer file.Close()

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extracting text from pdf %q: %w", path, err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("reading text from pdf %q: %w", path, err)
	}

	return buf.String(), nil
}

// CleanText collapses whitespace and newlines into single spaces.
func CleanText(text string) string {
	return utils.CollapseSpaces(text)
}
