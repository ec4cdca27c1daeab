package services

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cast"
)

// EncodeEditLink serializes item into the URL-safe token carried by an
// "edit" deep link.
func EncodeEditLink(item CartItem) (string, error) {
	raw, err := json.Marshal(item)
	if err != nil {
		return "", fmt.Errorf("encode edit link: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// DecodeEditLink parses a token produced by EncodeEditLink. Links built by
// older clients may carry numbers as strings and padded base64, so both are
// accepted.
func DecodeEditLink(token string) (CartItem, error) {
	token = strings.TrimRight(strings.TrimSpace(token), "=")
	if token == "" {
		return CartItem{}, &ValidationError{Field: "item", Message: "edit link is empty"}
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return CartItem{}, &ValidationError{Field: "item", Message: "edit link is not valid"}
	}

	var loose map[string]any
	if err := json.Unmarshal(raw, &loose); err != nil {
		return CartItem{}, &ValidationError{Field: "item", Message: "edit link is not valid"}
	}
	for _, key := range []string{"numSamples", "price"} {
		v, ok := loose[key]
		if !ok {
			continue
		}
		if key == "numSamples" {
			loose[key] = cast.ToInt(v)
		} else {
			loose[key] = cast.ToFloat64(v)
		}
	}
	normalized, err := json.Marshal(loose)
	if err != nil {
		return CartItem{}, fmt.Errorf("decode edit link: %w", err)
	}

	var item CartItem
	if err := json.Unmarshal(normalized, &item); err != nil {
		return CartItem{}, &ValidationError{Field: "item", Message: "edit link is not valid"}
	}
	if item.ID == "" {
		return CartItem{}, &ValidationError{Field: "item", Message: "edit link has no item id"}
	}
	return item, nil
}
