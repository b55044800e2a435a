package board

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client talks to the external board-management API. The core only
// needs two effects from it: mirror an order as a board item, and push
// a status label onto an existing item. Failures are returned to the
// caller, which treats them as non-fatal.
type Client struct {
	client   *http.Client
	baseURL  string
	apiToken string
	boardID  string
}

// NewClient creates new board Client instance
func NewClient(baseURL, apiToken, boardID string) *Client {
	return &Client{
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
		baseURL:  baseURL,
		apiToken: apiToken,
		boardID:  boardID,
	}
}

type apiRequest struct {
	Query string `json:"query"`
}

type apiResponse struct {
	Data struct {
		CreateItem struct {
			ID string `json:"id"`
		} `json:"create_item"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// CreateOrderItem creates a board item named after the order and
// returns the new item id.
func (c *Client) CreateOrderItem(ctx context.Context, itemName string) (string, error) {
	query := fmt.Sprintf(`mutation { create_item (board_id: %s, item_name: %q) { id } }`, c.boardID, itemName)

	resp, err := c.do(ctx, query)
	if err != nil {
		return "", err
	}
	if resp.Data.CreateItem.ID == "" {
		return "", fmt.Errorf("board: create item returned no id")
	}

	return resp.Data.CreateItem.ID, nil
}

// PushStatusLabel sets the status column of a board item to the given
// vendor label.
func (c *Client) PushStatusLabel(ctx context.Context, itemID, columnID, label string) error {
	value, err := json.Marshal(map[string]string{"label": label})
	if err != nil {
		return err
	}
	quoted, err := json.Marshal(string(value))
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`mutation { change_column_value (board_id: %s, item_id: %s, column_id: %q, value: %s) { id } }`,
		c.boardID, itemID, columnID, quoted)

	_, err = c.do(ctx, query)
	return err
}

func (c *Client) do(ctx context.Context, query string) (*apiResponse, error) {
	body, err := json.Marshal(apiRequest{Query: query})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.apiToken)

	resp, err := c.client.Do(req)
	if resp != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("board: unexpected status %d", resp.StatusCode)
	}

	apiResp := apiResponse{}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, err
	}
	if len(apiResp.Errors) > 0 {
		return nil, fmt.Errorf("board: %s", apiResp.Errors[0].Message)
	}

	return &apiResp, nil
}
