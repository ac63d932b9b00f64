// Package openai реализует клиент Chat Completions API для расчёта
// рекомендаций по уходу и ведения диалога с ветеринарным ассистентом.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/kittycareapp/kittycare-server/internal/models"
)

const recommendationsPrompt = "You are a chatbot designed to act as a professional and empathetic pet veterinarian. " +
	"Your primary role is to determine some KPIs based on the following details about a user's cat.\n\n" +
	"The KPIs you are required to output are:\n" +
	"- How many food bowls should be given to the cat? Maximum: 3, Minimum: 1, Interval: 0.1\n" +
	"- How many treats should be given to the cat? Maximum: 5, Minimum: 0, Interval: 0.5\n" +
	"- How much playtime should be given to the cat? Maximum: 60 minutes, Minimum: 0, Interval: 1 minutes\n\n" +
	"Use the cat's details to determine these KPIs. For example, you should take into account the cat's age, " +
	"gender, weight, breed, and any medical history to determine the perfect KPIs.\n\n" +
	"Please only return me an json containing keys:\n- food_bowls\n- treats\n- playtime\n\n" +
	"Don't return ANYTHING ELSE, no text before, no after, just the object.\n\n" +
	"Sample output:\n{ 'food_bowls': 2, 'treats': 1, 'playtime': 50 }"

const chatPromptTemplate = "You are a chatbot designed to act as a professional and empathetic pet veterinarian. " +
	"Your primary role is to provide veterinary advice and information based on the following details about a user's cat.\n" +
	"Interaction Guidelines:\n" +
	"Professional and Respectful Tone: Maintain a formal and respectful tone, blending warmth and empathy to engage and support the user effectively.\n" +
	"Concise and Clear Advice: Offer straightforward and clear advice. Responses should be easy to understand and reflect current, evidence-based veterinary practices.\n" +
	"Conversational Approach: Engage in a conversational manner. If a user asks a question or describes a symptom, respond by asking for more specific details " +
	"to narrow down possibilities and tailor your advice. Keep the conversation focused on the cat's health and care.\n" +
	"Handling Unexpected Queries: If the conversation veers off topic, gently steer it back to the cat's health.\n" +
	"Empathy and Support: Show understanding and empathy, especially if the pet owner is worried. Reassure them and acknowledge their concerns with supportive words.\n" +
	"Handling Complex Cases: For complex or specialized issues, advise the user to consult with a veterinarian in person for a detailed evaluation and guidance.\n" +
	"Chatbot Disclosure: Avoid disclosing that you are a chatbot.\n\n" +
	"Here are the details about the cat: %s. Please respond in %s language, all conversation should be in %s language."

type Client struct {
	apiKey     string
	model      string
	apiURL     string
	httpClient *http.Client
}

// NewClient создаёт новый клиент OpenAI. При пустой модели используется
// gpt-4o-mini.
func NewClient(apiKey, model string) *Client {
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &Client{
		apiKey:     apiKey,
		model:      model,
		apiURL:     "https://api.openai.com/v1",
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// WithBaseURL переопределяет адрес API. Используется в тестах.
func (c *Client) WithBaseURL(apiURL string) *Client {
	c.apiURL = apiURL
	return c
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type completionRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type completionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *Client) complete(ctx context.Context, reqBody completionRequest) (string, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(reqBody); err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/chat/completions", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	var completion completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		if completion.Error != nil {
			return "", fmt.Errorf("openai: %s", completion.Error.Message)
		}
		return "", fmt.Errorf("openai: unexpected status %s", resp.Status)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("openai: empty choices in response")
	}
	return completion.Choices[0].Message.Content, nil
}

// GetRecommendations рассчитывает KPI по уходу для профиля кота.
func (c *Client) GetRecommendations(ctx context.Context, cat *models.Cat) (*models.Recommendations, error) {
	const op = "openai.GetRecommendations"

	catJSON, err := json.Marshal(cat)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	content, err := c.complete(ctx, completionRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: recommendationsPrompt},
			{Role: "user", Content: "Provide recommendations for a cat with the following details: " + string(catJSON)},
		},
		MaxTokens:      500,
		ResponseFormat: &responseFormat{Type: "json_object"},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var rec models.Recommendations
	if err := json.Unmarshal([]byte(content), &rec); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &rec, nil
}

// SendMessages отправляет историю диалога модели и возвращает ответ
// ассистента. language задаёт язык ответа, по умолчанию английский.
func (c *Client) SendMessages(ctx context.Context, cat *models.Cat, turns []models.ChatTurn, language string) (string, error) {
	const op = "openai.SendMessages"

	if language == "" {
		language = "English"
	}
	catJSON, err := json.Marshal(cat)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	messages := make([]chatMessage, 0, len(turns)+1)
	messages = append(messages, chatMessage{
		Role:    "system",
		Content: fmt.Sprintf(chatPromptTemplate, string(catJSON), language, language),
	})
	for _, turn := range turns {
		messages = append(messages, chatMessage{Role: turn.Role, Content: turn.Content})
	}

	content, err := c.complete(ctx, completionRequest{
		Model:    c.model,
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return content, nil
}
