package imagegen

import (
	"encoding/json"
	"fmt"
	"strings"
)

type completion struct {
	Choices []struct {
		Message struct {
			Content json.RawMessage `json:"content"`
			Images  []contentPart   `json:"images"`
		} `json:"message"`
	} `json:"choices"`
	Image string `json:"image"`
}

type contentPart struct {
	Type     string          `json:"type"`
	Text     string          `json:"text"`
	ImageURL json.RawMessage `json:"image_url"`
}

// Parse normalizes a chat completion body. Image locations are tried in order:
// message.images, image_url parts of message.content, then a top-level image.
// Text comes from a string content or from the text parts of an array content.
func Parse(raw []byte) (*Result, error) {
	var c completion
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if len(c.Choices) == 0 {
		return nil, ErrInvalidResponse
	}
	msg := c.Choices[0].Message
	res := &Result{}

	if len(msg.Images) > 0 {
		res.ImageURL = imageURL(msg.Images[0].ImageURL)
	}

	var text string
	if err := json.Unmarshal(msg.Content, &text); err == nil {
		res.Text = text
	} else {
		var parts []contentPart
		if err := json.Unmarshal(msg.Content, &parts); err == nil {
			var texts []string
			for _, p := range parts {
				switch p.Type {
				case "image_url":
					if res.ImageURL == "" {
						res.ImageURL = imageURL(p.ImageURL)
					}
				case "text":
					if p.Text != "" {
						texts = append(texts, p.Text)
					}
				}
			}
			res.Text = strings.Join(texts, "\n")
		}
	}

	if res.ImageURL == "" {
		res.ImageURL = c.Image
	}
	return res, nil
}

// imageURL accepts both {"url": "..."} and a bare string.
func imageURL(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var obj struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.URL
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return ""
}
