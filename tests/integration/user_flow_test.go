package integration

import (
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"
)

func TestUserLifecycle(t *testing.T) {
	baseURL := os.Getenv("INTEGRATION_BASE_URL")
	if baseURL == "" {
		t.Skip("INTEGRATION_BASE_URL not set; skipping integration test")
	}

	client := newBrowser(t)
	n := time.Now().UnixNano()
	username := fmt.Sprintf("it_user_%d", n%1000000)
	password := "Passw0rd1"
	email := fmt.Sprintf("it_user_%d@example.com", n%1000000)
	idnumber := fmt.Sprintf("%013d", n%10000000000000)

	// 1. Register
	status, location := postForm(t, client, baseURL+"/register", url.Values{
		"username":         {username},
		"password":         {password},
		"confirm_password": {password},
		"email":            {email},
		"idnumber":         {idnumber},
		"gender":           {"other"},
		"phonenumber":      {"011-234-5678"},
	})
	if status != http.StatusFound || location != "/" {
		t.Fatalf("register failed: status=%d location=%q", status, location)
	}

	// 2. A second account reusing the email is rejected (form re-render).
	status, _ = postForm(t, client, baseURL+"/register", url.Values{
		"username":         {username + "b"},
		"password":         {password},
		"confirm_password": {password},
		"email":            {email},
		"idnumber":         {fmt.Sprintf("%013d", (n+1)%10000000000000)},
		"gender":           {"other"},
		"phonenumber":      {"011-234-5678"},
	})
	if status != http.StatusOK {
		t.Fatalf("duplicate email register: expected re-render (200), got %d", status)
	}

	// 3. Dashboard before login redirects to entry.
	status, location = get(t, client, baseURL+"/dashboard")
	if status != http.StatusFound || location != "/" {
		t.Fatalf("dashboard (anonymous) expected redirect to /, got status=%d location=%q", status, location)
	}

	// 4. Login
	status, location = postForm(t, client, baseURL+"/login", url.Values{
		"username": {username},
		"password": {password},
	})
	if status != http.StatusFound || location != "/dashboard" {
		t.Fatalf("login failed: status=%d location=%q", status, location)
	}

	// 5. Dashboard shows username and email, never the password.
	status, body := getBody(t, client, baseURL+"/dashboard")
	if status != http.StatusOK {
		t.Fatalf("dashboard failed: status=%d", status)
	}
	if !strings.Contains(body, username) || !strings.Contains(body, email) {
		t.Fatalf("dashboard missing principal fields")
	}
	if strings.Contains(body, password) {
		t.Fatalf("dashboard leaked the password")
	}

	// 6. Wrong password and unknown username produce the same bounce.
	for _, creds := range []url.Values{
		{"username": {username}, "password": {"Wrongpwd1"}},
		{"username": {"nobody_" + username}, "password": {password}},
	} {
		status, location = postForm(t, newBrowser(t), baseURL+"/login", creds)
		if status != http.StatusFound || location != "/" {
			t.Fatalf("invalid login expected redirect to /, got status=%d location=%q", status, location)
		}
	}

	// 7. Logout, then the dashboard is gated again.
	status, location = get(t, client, baseURL+"/logout")
	if status != http.StatusFound || location != "/" {
		t.Fatalf("logout failed: status=%d location=%q", status, location)
	}
	status, location = get(t, client, baseURL+"/dashboard")
	if status != http.StatusFound || location != "/" {
		t.Fatalf("dashboard (after logout) expected redirect to /, got status=%d location=%q", status, location)
	}
}

func newBrowser(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &http.Client{
		Timeout: 5 * time.Second,
		Jar:     jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func postForm(t *testing.T, client *http.Client, url string, form map[string][]string) (int, string) {
	t.Helper()
	resp, err := client.PostForm(url, form)
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, resp.Header.Get("Location")
}

func get(t *testing.T, client *http.Client, url string) (int, string) {
	t.Helper()
	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, resp.Header.Get("Location")
}

func getBody(t *testing.T, client *http.Client, url string) (int, string) {
	t.Helper()
	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, string(data)
}
