package kodesk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"availability_notification_bot/internal/domain/availability"

	"github.com/sirupsen/logrus"
)

// The queries are the ones the Kodesk dashboard client sends, trimmed to the
// fields this bot consumes.
const refreshSessionQuery = `
mutation RefreshSession($refreshToken: String!) {
  refreshSession(refreshToken: $refreshToken) {
    token
    refreshToken
  }
}`

const usersAvailabilityQuery = `
query UsersAvailabilityAndBirthday($queryName: String, $projects: [String!], $date: String) {
  usersAvailabilityAndBirthday(
    input: {date: $date, queryName: $queryName, projects: $projects}
  ) {
    unavailable {
      id
      name
      availability
      unavailableTime
      ptoRequests {
        id
        requestDate
        endDate
        totalDay
        status
        requestReason
        unavailableTime
      }
    }
    available {
      id
      name
      availability
      unavailableTime
      ptoRequests {
        id
        requestDate
        endDate
        totalDay
        status
        requestReason
        unavailableTime
      }
    }
  }
}`

// Client fetches user availability from the Kodesk GraphQL API. Every fetch
// first exchanges the refresh token for a fresh bearer token, since session
// tokens outlive a single run only rarely.
type Client struct {
	apiURL       string
	bearerToken  string
	refreshToken string
	projectID    string
	httpClient   *http.Client
	logger       *logrus.Logger
}

func NewClient(apiURL, bearerToken, refreshToken, projectID string, timeout time.Duration, logger *logrus.Logger) *Client {
	return &Client{
		apiURL:       apiURL,
		bearerToken:  bearerToken,
		refreshToken: refreshToken,
		projectID:    projectID,
		httpClient:   &http.Client{Timeout: timeout},
		logger:       logger,
	}
}

type graphqlRequest struct {
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
	Query         string         `json:"query"`
}

type refreshSessionResponse struct {
	Data *struct {
		RefreshSession *struct {
			Token        string `json:"token"`
			RefreshToken string `json:"refreshToken"`
		} `json:"refreshSession"`
	} `json:"data"`
}

type fetchedUserPayload struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Availability    string `json:"availability"`
	UnavailableTime string `json:"unavailableTime"`
	PtoRequests     []struct {
		ID              string  `json:"id"`
		RequestDate     string  `json:"requestDate"`
		EndDate         string  `json:"endDate"`
		TotalDay        float64 `json:"totalDay"`
		Status          string  `json:"status"`
		UnavailableTime string  `json:"unavailableTime"`
		RequestReason   string  `json:"requestReason"`
	} `json:"ptoRequests"`
}

type availabilityResponse struct {
	Data *struct {
		UsersAvailabilityAndBirthday *struct {
			Unavailable []fetchedUserPayload `json:"unavailable"`
			Available   []fetchedUserPayload `json:"available"`
		} `json:"usersAvailabilityAndBirthday"`
	} `json:"data"`
}

// FetchAvailability retrieves the availability picture for the given date.
// A non-nil error is always a *availability.FetchError.
func (c *Client) FetchAvailability(ctx context.Context, date time.Time) (*availability.Availability, error) {
	token, err := c.renewToken(ctx)
	if err != nil {
		return nil, err
	}
	c.logger.Debugf("Session token renewed, fetching availability for %s", date.Format("2006-01-02"))

	req := graphqlRequest{
		OperationName: "UsersAvailabilityAndBirthday",
		Variables: map[string]any{
			"date":      date.UTC().Format("2006-01-02T15:04:05.000Z"),
			"queryName": "",
			"projects":  c.projectVariable(),
		},
		Query: usersAvailabilityQuery,
	}

	var res availabilityResponse
	if ferr := c.post(ctx, token, req, &res); ferr != nil {
		return nil, ferr
	}
	if res.Data == nil || res.Data.UsersAvailabilityAndBirthday == nil {
		return nil, availability.NewFetchError(availability.FetchErrorMalformedResponse,
			"availability response is missing the usersAvailabilityAndBirthday envelope")
	}

	picture := res.Data.UsersAvailabilityAndBirthday
	return &availability.Availability{
		Available:   mapFetchedUsers(picture.Available),
		Unavailable: mapFetchedUsers(picture.Unavailable),
	}, nil
}

// renewToken exchanges the configured refresh token for a fresh bearer token.
func (c *Client) renewToken(ctx context.Context) (string, error) {
	req := graphqlRequest{
		OperationName: "RefreshSession",
		Variables:     map[string]any{"refreshToken": c.refreshToken},
		Query:         refreshSessionQuery,
	}

	var res refreshSessionResponse
	if ferr := c.post(ctx, c.bearerToken, req, &res); ferr != nil {
		return "", ferr
	}
	if res.Data == nil || res.Data.RefreshSession == nil || res.Data.RefreshSession.Token == "" {
		return "", availability.NewFetchError(availability.FetchErrorMalformedResponse,
			"refresh session response is missing the token")
	}
	return res.Data.RefreshSession.Token, nil
}

// post executes one GraphQL request and decodes the response into out,
// classifying failures into the fetch error taxonomy.
func (c *Client) post(ctx context.Context, token string, payload graphqlRequest, out any) *availability.FetchError {
	body, err := json.Marshal(payload)
	if err != nil {
		return availability.NewFetchError(availability.FetchErrorUnknown, "failed to encode request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return availability.NewFetchError(availability.FetchErrorUnknown, "failed to build request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return availability.NewFetchError(availability.FetchErrorTimeout, "%s request timed out: %v", payload.OperationName, err)
		}
		return availability.NewFetchError(availability.FetchErrorUnknown, "%s request failed: %v", payload.OperationName, err)
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return availability.NewFetchError(availability.FetchErrorUnknown, "failed to read %s response: %v", payload.OperationName, err)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return availability.NewFetchError(availability.FetchErrorUnknown,
			"%s responded with status %d: %s", payload.OperationName, res.StatusCode, truncate(string(resBody), 512))
	}

	if err := json.Unmarshal(resBody, out); err != nil {
		return availability.NewFetchError(availability.FetchErrorMalformedResponse,
			"failed to decode %s response: %v", payload.OperationName, err)
	}
	return nil
}

func (c *Client) projectVariable() []string {
	if c.projectID == "" {
		return []string{}
	}
	return []string{c.projectID}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}

func mapFetchedUsers(payloads []fetchedUserPayload) []availability.FetchedUser {
	users := make([]availability.FetchedUser, 0, len(payloads))
	for _, p := range payloads {
		u := availability.FetchedUser{
			ID:              availability.UserID(p.ID),
			Name:            p.Name,
			Availability:    availability.Kind(p.Availability),
			UnavailableTime: availability.TimeRange(p.UnavailableTime),
		}
		for _, pto := range p.PtoRequests {
			u.PtoRequests = append(u.PtoRequests, availability.PtoRequest{
				ID:              pto.ID,
				RequestDate:     pto.RequestDate,
				EndDate:         pto.EndDate,
				TotalDay:        pto.TotalDay,
				Status:          pto.Status,
				UnavailableTime: availability.TimeRange(pto.UnavailableTime),
				RequestReason:   pto.RequestReason,
			})
		}
		users = append(users, u)
	}
	return users
}
