package assistant

import (
	"context"
	"errors"
	"testing"

	"github.com/Nivash8098/E-Commerece-Website/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type mockGenerator struct {
	reply   string
	err     error
	prompts []string
	configs []*genai.GenerateContentConfig
}

func (m *mockGenerator) Generate(_ context.Context, prompt string, cfg *genai.GenerateContentConfig) (string, error) {
	m.prompts = append(m.prompts, prompt)
	m.configs = append(m.configs, cfg)
	return m.reply, m.err
}

func TestSendMessage(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		err   error
		want  string
	}{
		{name: "reply passed through", reply: "Try the Nebula X1 📱", want: "Try the Nebula X1 📱"},
		{name: "error becomes apology", err: errors.New("quota"), want: connectionApology},
		{name: "empty reply", reply: "  ", want: emptyReplyApology},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &mockGenerator{reply: tt.reply, err: tt.err}
			a := New(gen, nil)

			assert.Equal(t, tt.want, a.SendMessage(context.Background(), "best phone?"))
			require.Len(t, gen.configs, 1)
			require.NotNil(t, gen.configs[0].SystemInstruction)
			assert.Equal(t, systemInstruction, gen.configs[0].SystemInstruction.Parts[0].Text)
			assert.Equal(t, "best phone?", gen.prompts[0])
		})
	}
}

func TestSendMessage_NotConfigured(t *testing.T) {
	a := New(nil, nil)
	assert.Equal(t, connectionApology, a.SendMessage(context.Background(), "hi"))
}

func TestRecommend(t *testing.T) {
	gen := &mockGenerator{reply: "Go for the Aura headphones."}
	a := New(gen, nil)

	products := []domain.Product{
		{ID: "1", Name: "Aura Pro Headphones", Description: "ANC", Price: 24999, Stock: 3},
	}
	got, err := a.Recommend(context.Background(), "noise cancelling", products)
	require.NoError(t, err)
	assert.Equal(t, "Go for the Aura headphones.", got)

	prompt := gen.prompts[0]
	assert.Contains(t, prompt, `"noise cancelling"`)
	assert.Contains(t, prompt, `{"id":"1","name":"Aura Pro Headphones","description":"ANC","price":24999}`)
	assert.NotContains(t, prompt, "stock")
	require.NotNil(t, gen.configs[0].Temperature)
	assert.Equal(t, float32(0.7), *gen.configs[0].Temperature)
}

func TestDeepDive(t *testing.T) {
	gen := &mockGenerator{reply: "• Great battery"}
	a := New(gen, nil)

	got, err := a.DeepDive(context.Background(), domain.Product{ID: "m1", Name: "Nebula X1"})
	require.NoError(t, err)
	assert.Equal(t, "• Great battery", got)
	assert.Contains(t, gen.prompts[0], "Nebula X1")
	assert.Nil(t, gen.configs[0])
}

func TestGenerateErrors(t *testing.T) {
	_, err := New(nil, nil).DeepDive(context.Background(), domain.Product{})
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = New(&mockGenerator{reply: ""}, nil).Recommend(context.Background(), "x", nil)
	assert.ErrorIs(t, err, ErrEmptyReply)

	boom := errors.New("boom")
	_, err = New(&mockGenerator{err: boom}, nil).Recommend(context.Background(), "x", nil)
	assert.ErrorIs(t, err, boom)
}

func TestNewGeminiGenerator_RequiresKey(t *testing.T) {
	_, err := NewGeminiGenerator(context.Background(), "", "")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
