package twitter

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dghubble/oauth1"
)

// Profile is the subset of the Twitter user object the tracker uses.
type Profile struct {
	ID            string `json:"id_str"`
	Handle        string `json:"screen_name"`
	Name          string `json:"name"`
	Bio           string `json:"description"`
	Location      string `json:"location"`
	PostCount     uint   `json:"statuses_count"`
	FollowerCount uint   `json:"followers_count"`
	FriendCount   uint   `json:"friends_count"`
	CreatedAt     string `json:"created_at"`
}

// FriendsPage is one page of the cursored friends walk.
type FriendsPage struct {
	NextCursor     Cursor    `json:"next_cursor"`
	PreviousCursor Cursor    `json:"previous_cursor"`
	Users          []Profile `json:"users"`
}

// GraphClient is the remote social graph surface the services depend on.
type GraphClient interface {
	FollowerIDs() (map[string]struct{}, error)
	FriendsPage(cursor Cursor, count int) (FriendsPage, error)
	DestroyFriendship(id string) error
}

// Credentials holds the OAuth1 credentials for the tracked account.
type Credentials struct {
	ConsumerKey       string
	ConsumerSecret    string
	AccessToken       string
	AccessTokenSecret string
}

// RemoteError is a non-2xx reply from the Twitter API. The core never
// retries these; they surface to the caller.
type RemoteError struct {
	Endpoint string
	Status   int
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("twitter: %s returned status %d", e.Endpoint, e.Status)
}

const defaultBaseURL = "https://api.twitter.com/1.1"

// Client talks to the Twitter REST API with OAuth1 request signing. Build
// one per process and inject it; credentials are fixed at construction.
type Client struct {
	HTTPClient *http.Client
	BaseURL    string
}

// NewClient returns a Client whose requests are signed with the given
// credentials.
func NewClient(creds Credentials) *Client {
	cfg := oauth1.NewConfig(creds.ConsumerKey, creds.ConsumerSecret)
	token := oauth1.NewToken(creds.AccessToken, creds.AccessTokenSecret)
	return &Client{
		HTTPClient: cfg.Client(oauth1.NoContext, token),
		BaseURL:    defaultBaseURL,
	}
}

// FollowerIDs fetches the complete follower id set for the tracked account.
// The endpoint is cursored; the walk is handled here so callers see a single
// atomic fetch.
func (c *Client) FollowerIDs() (map[string]struct{}, error) {
	ids := make(map[string]struct{})

	cursor := CursorStart
	for !cursor.Done() {
		params := url.Values{}
		params.Set("stringify_ids", "true")
		params.Set("cursor", strconv.FormatInt(int64(cursor), 10))

		var page struct {
			IDs        []string `json:"ids"`
			NextCursor Cursor   `json:"next_cursor"`
		}
		if err := c.get("/followers/ids.json", params, &page); err != nil {
			return nil, err
		}

		for _, id := range page.IDs {
			ids[id] = struct{}{}
		}
		cursor = page.NextCursor
	}

	return ids, nil
}

// FriendsPage fetches one page of the accounts the tracked account follows.
func (c *Client) FriendsPage(cursor Cursor, count int) (FriendsPage, error) {
	params := url.Values{}
	params.Set("cursor", strconv.FormatInt(int64(cursor), 10))
	params.Set("count", strconv.Itoa(count))
	params.Set("skip_status", "true")
	params.Set("include_user_entities", "false")

	var page FriendsPage
	if err := c.get("/friends/list.json", params, &page); err != nil {
		return FriendsPage{}, err
	}
	return page, nil
}

// DestroyFriendship unfollows the account with the given id.
func (c *Client) DestroyFriendship(id string) error {
	form := url.Values{}
	form.Set("user_id", id)

	resp, err := c.HTTPClient.PostForm(c.BaseURL+"/friendships/destroy.json", form)
	if err != nil {
		return fmt.Errorf("twitter: destroying friendship %s: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &RemoteError{Endpoint: "/friendships/destroy.json", Status: resp.StatusCode}
	}
	return nil
}

func (c *Client) get(endpoint string, params url.Values, out interface{}) error {
	resp, err := c.HTTPClient.Get(c.BaseURL + endpoint + "?" + params.Encode())
	if err != nil {
		return fmt.Errorf("twitter: requesting %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &RemoteError{Endpoint: endpoint, Status: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("twitter: decoding %s response: %w", endpoint, err)
	}
	return nil
}
