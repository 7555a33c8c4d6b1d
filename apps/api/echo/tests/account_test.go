package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/elimuhub/elimu/core/user"
)

type (
	userResponse struct {
		Success bool         `json:"success"`
		User    user.Profile `json:"user"`
	}
	tokenResponse struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
	}
)

func Test_accountApi_signUp(t *testing.T) {
	env := setup(t)

	env.createStudent(t, "taken@test.cm", "Taken")

	tests := []httpTest{
		{
			name: "Fields required", body: []byte(`{}`), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: map[string]string{
				"email":    "this field is required",
				"password": "this field is required",
				"name":     "this field is required",
			}}),
		},
		{
			name:     "Invalid email",
			body:     marchallObj(t, map[string]string{"email": "nope", "password": testPassword, "name": "Awa"}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: map[string]string{"email": "email must be a valid email address"}}),
		},
		{
			name:     "Weak password",
			body:     marchallObj(t, map[string]string{"email": "awa@test.cm", "password": "1234", "name": "Awa"}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: map[string]string{"password": "password must contain at least 8 characters"}}),
		},
		{
			name:     "Email taken",
			body:     marchallObj(t, map[string]string{"email": "taken@test.cm", "password": testPassword, "name": "Other"}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: map[string]string{"email": "an account with this email already exists"}}),
		},
		{
			name:     "Signed up as student",
			body:     marchallObj(t, map[string]string{"email": "awa@test.cm", "password": testPassword, "name": "Awa"}),
			wantCode: http.StatusCreated,
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/signup"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			env.server.ServeHTTP(rec, req)

			// cannot guess the generated ID; check the envelope by hand
			if tt.wantCode == http.StatusCreated {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
				}
				var resp userResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
					t.Fatalf("json.Unmarshal() failed! err %v", err)
				}
				if !resp.Success {
					t.Error("failed! success = false")
				}
				if resp.User.Email != "awa@test.cm" {
					t.Errorf("failed! email = %q", resp.User.Email)
				}
				if !resp.User.IsStudent() {
					t.Errorf("failed! role = %q; want student", resp.User.Role)
				}
				if resp.User.ID == "" {
					t.Error("failed! empty user ID")
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_accountApi_adminSignUp(t *testing.T) {
	env := setup(t)

	body := func(email, secret string) []byte {
		return marchallObj(t, map[string]string{
			"email": email, "password": testPassword, "name": "Admin", "adminSecret": secret,
		})
	}

	tests := []httpTest{
		{
			name: "Secret required", body: marchallObj(t, map[string]string{"email": "a@test.cm", "password": testPassword, "name": "Admin"}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: map[string]string{"adminSecret": "this field is required"}}),
		},
		{
			name: "Wrong secret", body: body("a@test.cm", "nope"), wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{name: "Signed up as admin", body: body("a@test.cm", testAdminSecret), wantCode: http.StatusCreated},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/admin/signup"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			env.server.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusCreated {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
				}
				var resp userResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
					t.Fatalf("json.Unmarshal() failed! err %v", err)
				}
				if !resp.User.IsAdmin() {
					t.Errorf("failed! role = %q; want admin", resp.User.Role)
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

// An unset admin signup secret disables the endpoint entirely; the right
// answer to any guess is 403.
func Test_accountApi_adminSignUp_disabled(t *testing.T) {
	env := setup(t)
	env.conf.AdminSignupSecret = ""

	tt := httpTest{
		body: marchallObj(t, map[string]string{
			"email": "a@test.cm", "password": testPassword, "name": "Admin", "adminSecret": "",
		}),
		wantCode: http.StatusBadRequest, // required field wins first
	}
	req, rec := newRequest(http.MethodPost, "/admin/signup", tt.body)
	env.server.ServeHTTP(rec, req)
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}

	tt.body = marchallObj(t, map[string]string{
		"email": "a@test.cm", "password": testPassword, "name": "Admin", "adminSecret": "anything",
	})
	req, rec = newRequest(http.MethodPost, "/admin/signup", tt.body)
	env.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, http.StatusForbidden)
	}
}

func Test_accountApi_signIn(t *testing.T) {
	env := setup(t)

	env.createStudent(t, "awa@test.cm", "Awa")
	invalidCreds := marchallObj(t, httpErr{Error: "invalid credentials"})

	tests := []httpTest{
		{
			name: "Fields required", body: []byte(`{}`), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: map[string]string{
				"email":    "this field is required",
				"password": "this field is required",
			}}),
		},
		{
			name:     "Unknown email",
			body:     marchallObj(t, map[string]string{"email": "ghost@test.cm", "password": testPassword}),
			wantCode: http.StatusBadRequest, wantData: invalidCreds,
		},
		{
			name:     "Wrong password",
			body:     marchallObj(t, map[string]string{"email": "awa@test.cm", "password": "WrongPass#1"}),
			wantCode: http.StatusBadRequest, wantData: invalidCreds,
		},
		{
			name:     "Signed in",
			body:     marchallObj(t, map[string]string{"email": "awa@test.cm", "password": testPassword}),
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/signin"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			env.server.ServeHTTP(rec, req)

			// cannot guess the token; just check that it's not empty
			if tt.wantCode == http.StatusOK {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
				}
				var resp tokenResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
					t.Fatalf("json.Unmarshal() failed! err %v", err)
				}
				if resp.Token == "" {
					t.Error("failed! empty token")
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_accountApi_currentUser(t *testing.T) {
	env := setup(t)

	student := env.createStudent(t, "awa@test.cm", "Awa")

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "Garbage token", token: "not.a.jwt", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Current user", token: env.getToken(t, student), wantCode: http.StatusOK,
			wantData: marchallObj(t, map[string]user.Profile{"user": student}),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet
		tt.path = "/user"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token)
			env.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
