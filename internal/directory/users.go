package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// DirectoryUser is a summary of one user as known to the directory.
type DirectoryUser struct {
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	DisplayName string   `json:"displayName"`
	Roles       []string `json:"roles"`
}

// CreateUserRequest is the input to user creation. Roles are raw role
// names resolved against the directory's role catalog.
type CreateUserRequest struct {
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Name     string   `json:"name"`
	Password string   `json:"password"`
	Roles    []string `json:"roles"`
}

// userRepresentation mirrors the directory's user record.
type userRepresentation struct {
	ID          string                     `json:"id,omitempty"`
	Username    string                     `json:"username"`
	Email       string                     `json:"email,omitempty"`
	FirstName   string                     `json:"firstName,omitempty"`
	LastName    string                     `json:"lastName,omitempty"`
	Enabled     bool                       `json:"enabled"`
	Credentials []credentialRepresentation `json:"credentials,omitempty"`
}

// credentialRepresentation mirrors the directory's credential record.
type credentialRepresentation struct {
	Type      string `json:"type"`
	Value     string `json:"value"`
	Temporary bool   `json:"temporary"`
}

// roleRepresentation mirrors the directory's realm role record.
type roleRepresentation struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ListUsers returns every user in the realm. Each entry costs one extra
// round trip to fetch the user's realm-level roles, which is acceptable
// at admin-panel scale but not for bulk listing.
func (c *Client) ListUsers(ctx context.Context) ([]DirectoryUser, error) {
	var records []userRepresentation
	if err := c.getJSON(ctx, "/users", &records); err != nil {
		return nil, err
	}

	users := make([]DirectoryUser, 0, len(records))
	for _, record := range records {
		roles, err := c.userRealmRoles(ctx, record.ID)
		if err != nil {
			return nil, err
		}

		users = append(users, DirectoryUser{
			Username:    record.Username,
			Email:       record.Email,
			DisplayName: strings.TrimSpace(record.FirstName + " " + record.LastName),
			Roles:       roles,
		})
	}

	return users, nil
}

// userRealmRoles fetches the realm-level role names of one user.
func (c *Client) userRealmRoles(ctx context.Context, userID string) ([]string, error) {
	var roles []roleRepresentation
	path := fmt.Sprintf("/users/%s/role-mappings/realm", url.PathEscape(userID))
	if err := c.getJSON(ctx, path, &roles); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, role.Name)
	}
	return names, nil
}

// CreateUser creates a user and assigns the requested realm roles.
// Role names are resolved by exact lookup after the user record already
// exists, so an unknown role name returns *RoleNotFoundError while the
// created user remains behind without roles. There is no compensating
// rollback; this mirrors the provider's admin console workflow where
// the operator fixes the role assignment afterwards.
func (c *Client) CreateUser(ctx context.Context, req CreateUserRequest) error {
	record := userRepresentation{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.Name,
		Enabled:   true,
		Credentials: []credentialRepresentation{
			{Type: "password", Value: req.Password, Temporary: false},
		},
	}

	resp, err := c.do(ctx, http.MethodPost, "/users", record)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return &DirectoryError{Op: "create user", Status: resp.StatusCode, Detail: string(body)}
	}

	userID, err := createdID(resp)
	if err != nil {
		return err
	}

	roles, err := c.resolveRoles(ctx, req.Roles)
	if err != nil {
		return err
	}

	if len(roles) == 0 {
		return nil
	}

	return c.assignRealmRoles(ctx, userID, roles)
}

// createdID extracts the created resource ID from the Location header.
func createdID(resp *http.Response) (string, error) {
	location := resp.Header.Get("Location")
	if location == "" {
		return "", errors.New("directory create response has no Location header")
	}

	id := location[strings.LastIndex(location, "/")+1:]
	if id == "" {
		return "", fmt.Errorf("directory create response has malformed Location header: %s", location)
	}
	return id, nil
}

// resolveRoles resolves role names to directory role records by exact
// name lookup. The first unknown name aborts with *RoleNotFoundError.
func (c *Client) resolveRoles(ctx context.Context, names []string) ([]roleRepresentation, error) {
	roles := make([]roleRepresentation, 0, len(names))
	for _, name := range names {
		path := fmt.Sprintf("/roles/%s", url.PathEscape(name))

		resp, err := c.do(ctx, http.MethodGet, path, nil)
		if err != nil {
			return nil, err
		}

		switch resp.StatusCode {
		case http.StatusOK:
			var role roleRepresentation
			err := decodeBody(resp, &role)
			if err != nil {
				return nil, err
			}
			roles = append(roles, role)
		case http.StatusNotFound:
			closeBody(resp)
			return nil, &RoleNotFoundError{Role: name}
		default:
			body, _ := io.ReadAll(resp.Body)
			closeBody(resp)
			return nil, &DirectoryError{Op: "resolve role " + name, Status: resp.StatusCode, Detail: string(body)}
		}
	}

	return roles, nil
}

// assignRealmRoles assigns the resolved role set to a user in one call.
func (c *Client) assignRealmRoles(ctx context.Context, userID string, roles []roleRepresentation) error {
	path := fmt.Sprintf("/users/%s/role-mappings/realm", url.PathEscape(userID))

	resp, err := c.do(ctx, http.MethodPost, path, roles)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &DirectoryError{Op: "assign roles", Status: resp.StatusCode, Detail: string(body)}
	}

	return nil
}

// DeleteUser removes the user with the given username. A username with
// no matching record is absorbed as a no-op success.
func (c *Client) DeleteUser(ctx context.Context, username string) error {
	var matches []userRepresentation
	path := fmt.Sprintf("/users?username=%s&exact=true", url.QueryEscape(username))
	if err := c.getJSON(ctx, path, &matches); err != nil {
		return err
	}

	if len(matches) == 0 {
		return nil
	}

	deletePath := fmt.Sprintf("/users/%s", url.PathEscape(matches[0].ID))
	resp, err := c.do(ctx, http.MethodDelete, deletePath, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &DirectoryError{Op: "delete user", Status: resp.StatusCode, Detail: string(body)}
	}

	return nil
}

// decodeBody decodes a JSON response body and closes it.
func decodeBody(resp *http.Response, out interface{}) error {
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode directory response: %w", err)
	}
	return nil
}

// closeBody drains and closes a response body.
func closeBody(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
