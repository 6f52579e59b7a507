// Package google wraps Google's OAuth consent and People API behind a small
// provider contract: get a consent URL, then trade the callback code for the
// user's contact list. Token exchange internals stay on this side of the
// boundary.
package google

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"mechat-service/config"
)

const (
	authEndpoint   = "https://accounts.google.com/o/oauth2/v2/auth"
	tokenEndpoint  = "https://oauth2.googleapis.com/token"
	peopleEndpoint = "https://people.googleapis.com/v1/people/me/connections"
	contactsScope  = "https://www.googleapis.com/auth/contacts.readonly"
)

// Contact is one entry from the user's Google contact list.
type Contact struct {
	ResourceName string   `json:"resourceName"`
	Names        []string `json:"names"`
	Emails       []string `json:"emails"`
	Phones       []string `json:"phones"`
	Photo        string   `json:"photo"`
}

// Provider is the boundary to the external identity/contacts service.
type Provider interface {
	AuthCodeURL(state string) string
	FetchContacts(ctx context.Context, code string) ([]Contact, error)
}

// OAuthProvider implements Provider against the live Google endpoints.
type OAuthProvider struct {
	clientID     string
	clientSecret string
	redirectURI  string
	client       *http.Client
}

func NewProvider() *OAuthProvider {
	return &OAuthProvider{
		clientID:     config.Config("GOOGLE_CLIENT_ID"),
		clientSecret: config.Config("GOOGLE_CLIENT_SECRET"),
		redirectURI:  config.Config("GOOGLE_REDIRECT_URI"),
		client:       &http.Client{Timeout: 15 * time.Second},
	}
}

func (p *OAuthProvider) AuthCodeURL(state string) string {
	q := url.Values{}
	q.Set("client_id", p.clientID)
	q.Set("redirect_uri", p.redirectURI)
	q.Set("response_type", "code")
	q.Set("scope", contactsScope)
	q.Set("access_type", "offline")
	q.Set("prompt", "consent")
	if state != "" {
		q.Set("state", state)
	}
	return authEndpoint + "?" + q.Encode()
}

func (p *OAuthProvider) FetchContacts(ctx context.Context, code string) ([]Contact, error) {
	accessToken, err := p.exchange(ctx, code)
	if err != nil {
		return nil, err
	}
	return p.listConnections(ctx, accessToken)
}

func (p *OAuthProvider) exchange(ctx context.Context, code string) (string, error) {
	form := url.Values{}
	form.Set("code", code)
	form.Set("client_id", p.clientID)
	form.Set("client_secret", p.clientSecret)
	form.Set("redirect_uri", p.redirectURI)
	form.Set("grant_type", "authorization_code")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("token exchange failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("token exchange failed: %s: %s", resp.Status, body)
	}

	token := struct {
		AccessToken string `json:"access_token"`
	}{}
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("token exchange failed: %w", err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("token exchange returned no access token")
	}
	return token.AccessToken, nil
}

func (p *OAuthProvider) listConnections(ctx context.Context, accessToken string) ([]Contact, error) {
	q := url.Values{}
	q.Set("pageSize", "2000")
	q.Set("personFields", "names,emailAddresses,phoneNumbers,photos")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, peopleEndpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("contacts fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("contacts fetch failed: %s: %s", resp.Status, body)
	}

	payload := struct {
		Connections []struct {
			ResourceName string `json:"resourceName"`
			Names        []struct {
				DisplayName string `json:"displayName"`
			} `json:"names"`
			EmailAddresses []struct {
				Value string `json:"value"`
			} `json:"emailAddresses"`
			PhoneNumbers []struct {
				Value string `json:"value"`
			} `json:"phoneNumbers"`
			Photos []struct {
				URL string `json:"url"`
			} `json:"photos"`
		} `json:"connections"`
	}{}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("contacts fetch failed: %w", err)
	}

	contacts := make([]Contact, 0, len(payload.Connections))
	for _, c := range payload.Connections {
		contact := Contact{ResourceName: c.ResourceName}
		for _, n := range c.Names {
			contact.Names = append(contact.Names, n.DisplayName)
		}
		for _, e := range c.EmailAddresses {
			contact.Emails = append(contact.Emails, e.Value)
		}
		for _, ph := range c.PhoneNumbers {
			contact.Phones = append(contact.Phones, ph.Value)
		}
		if len(c.Photos) > 0 {
			contact.Photo = c.Photos[0].URL
		}
		contacts = append(contacts, contact)
	}
	return contacts, nil
}
