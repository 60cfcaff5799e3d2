package knowledge

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	genai "github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// GeminiAnswerer answers questions grounded on the business knowledge
// documents loaded from a directory at startup. The documents are passed as
// context with every prompt; index building stays out of scope.
type GeminiAnswerer struct {
	model  *genai.GenerativeModel
	docs   string
	logger *zap.Logger
}

// NewGeminiAnswerer loads every .txt and .md file under docsDir and builds
// the model client.
func NewGeminiAnswerer(ctx context.Context, apiKey, docsDir string, logger *zap.Logger) (*GeminiAnswerer, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	docs, err := loadDocuments(docsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load knowledge documents: %w", err)
	}
	logger.Info("knowledge documents loaded",
		zap.String("dir", docsDir),
		zap.Int("bytes", len(docs)),
	)

	model := client.GenerativeModel("models/gemini-1.5-flash")
	return &GeminiAnswerer{model: model, docs: docs, logger: logger}, nil
}

// Query answers one question from the loaded documents.
func (g *GeminiAnswerer) Query(ctx context.Context, text string) (string, error) {
	prompt := fmt.Sprintf(
		"You answer customer questions using only the business information below. "+
			"Keep answers short and conversational, suitable to be read aloud.\n\n"+
			"Business information:\n%s\n\nCustomer question: %s",
		g.docs, text,
	)

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate error: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			sb.WriteString(string(textPart))
		}
	}
	return strings.TrimSpace(sb.String()), nil
}

func loadDocuments(dir string) (string, error) {
	var sb strings.Builder
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".txt" && ext != ".md" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		fmt.Fprintf(&sb, "--- %s ---\n%s\n\n", filepath.Base(path), data)
		return nil
	})
	if err != nil {
		return "", err
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("no .txt or .md documents found in %s", dir)
	}
	return sb.String(), nil
}
