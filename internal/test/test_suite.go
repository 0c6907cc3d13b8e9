// Command-line stress test that exercises the registration/login/logout
// form flows and races concurrent registrations for the same username,
// producing CSV + HTML reports.
package main

import (
	"encoding/csv"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"
)

var baseURL = "http://127.0.0.1:8080"

// newClient returns an HTTP client with its own cookie jar that does
// not follow redirects, so each Location header can be asserted.
func newClient() *http.Client {
	jar, _ := cookiejar.New(nil)
	return &http.Client{
		Timeout: 10 * time.Second,
		Jar:     jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// ======================= form helpers =======================

// postForm submits a form and returns the status plus the redirect
// target, if any.
func postForm(client *http.Client, path string, form url.Values) (int, string, error) {
	resp, err := client.PostForm(baseURL+path, form)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()
	return resp.StatusCode, resp.Header.Get("Location"), nil
}

func getPath(client *http.Client, path string) (int, string, error) {
	resp, err := client.Get(baseURL + path)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()
	return resp.StatusCode, resp.Header.Get("Location"), nil
}

type account struct {
	Username string
	Password string
	Email    string
	IDNumber string
	Phone    string
}

func registerForm(a account) url.Values {
	return url.Values{
		"username":         {a.Username},
		"password":         {a.Password},
		"confirm_password": {a.Password},
		"email":            {a.Email},
		"idnumber":         {a.IDNumber},
		"gender":           {"other"},
		"phonenumber":      {a.Phone},
	}
}

// registerOutcome distinguishes the redirect-on-success contract from
// the re-render-on-failure contract.
func registerOutcome(status int, location string) string {
	if status == http.StatusFound && location == "/" {
		return "created"
	}
	if status == http.StatusOK {
		return "rejected"
	}
	return fmt.Sprintf("unexpected status=%d location=%s", status, location)
}

// ======================= smoke test =======================

// smokeTest walks one browser through the whole lifecycle: register,
// duplicate register, login, dashboard, logout, gated dashboard.
func smokeTest() error {
	n := time.Now().UnixNano()
	acct := account{
		Username: fmt.Sprintf("smoke%d", n%1000000),
		Password: "SmokePwd123",
		Email:    fmt.Sprintf("smoke%d@example.com", n%1000000),
		IDNumber: fmt.Sprintf("%013d", n%10000000000000),
		Phone:    fmt.Sprintf("07%09d", n%1000000000),
	}
	client := newClient()

	status, loc, err := postForm(client, "/register", registerForm(acct))
	if err != nil || registerOutcome(status, loc) != "created" {
		return fmt.Errorf("register (new) failed: status=%d loc=%s err=%v", status, loc, err)
	}

	// A duplicate registration re-renders the form with errors.
	status, loc, err = postForm(client, "/register", registerForm(acct))
	if err != nil || registerOutcome(status, loc) != "rejected" {
		return fmt.Errorf("register (duplicate) expected re-render, got status=%d loc=%s err=%v", status, loc, err)
	}

	login := url.Values{"username": {acct.Username}, "password": {acct.Password}}
	status, loc, err = postForm(client, "/login", login)
	if err != nil || status != http.StatusFound || loc != "/dashboard" {
		return fmt.Errorf("login (valid) failed: status=%d loc=%s err=%v", status, loc, err)
	}

	status, _, err = getPath(client, "/dashboard")
	if err != nil || status != http.StatusOK {
		return fmt.Errorf("dashboard (logged in) failed: status=%d err=%v", status, err)
	}

	// Wrong password and unknown username must both bounce to the entry page.
	other := newClient()
	for _, creds := range []url.Values{
		{"username": {acct.Username}, "password": {"WrongPwd123"}},
		{"username": {"nobody-" + acct.Username}, "password": {acct.Password}},
	} {
		status, loc, err = postForm(other, "/login", creds)
		if err != nil || status != http.StatusFound || loc != "/" {
			return fmt.Errorf("login (invalid) expected redirect to /, got status=%d loc=%s err=%v", status, loc, err)
		}
	}

	status, loc, err = getPath(client, "/logout")
	if err != nil || status != http.StatusFound || loc != "/" {
		return fmt.Errorf("logout failed: status=%d loc=%s err=%v", status, loc, err)
	}

	status, loc, err = getPath(client, "/dashboard")
	if err != nil || status != http.StatusFound || loc != "/" {
		return fmt.Errorf("dashboard (logged out) expected redirect to /, got status=%d loc=%s err=%v", status, loc, err)
	}

	log.Println("smoke test passed: register/login/dashboard/logout scenarios verified")
	return nil
}

// ======================= concurrency race =======================

type raceResult struct {
	Worker    int
	Outcome   string
	ErrMsg    string
	Timestamp time.Time
}

// concurrentRegisterTest fires workers registering the same username
// simultaneously. Exactly one registration may succeed; the store's
// unique indexes decide the race.
func concurrentRegisterTest(workers int, outCSV, outHTML string) error {
	n := time.Now().UnixNano()
	username := fmt.Sprintf("race%d", n%1000000)

	results := make(chan raceResult, workers)
	var start sync.WaitGroup
	start.Add(1)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			acct := account{
				Username: username,
				Password: "RacePwd123",
				Email:    fmt.Sprintf("race%d-%d@example.com", n%1000000, worker),
				IDNumber: fmt.Sprintf("%011d%02d", n%100000000000, worker),
				Phone:    fmt.Sprintf("07%07d%02d", n%10000000, worker),
			}
			start.Wait()
			status, loc, err := postForm(newClient(), "/register", registerForm(acct))
			res := raceResult{Worker: worker, Timestamp: time.Now()}
			if err != nil {
				res.Outcome = "error"
				res.ErrMsg = err.Error()
			} else {
				res.Outcome = registerOutcome(status, loc)
			}
			results <- res
		}(i)
	}
	start.Done()
	wg.Wait()
	close(results)

	created := 0
	var all []raceResult
	for r := range results {
		if r.Outcome == "created" {
			created++
		}
		all = append(all, r)
	}

	if err := writeCSVReport(outCSV, all); err != nil {
		return err
	}
	if err := writeHTMLReport(outHTML, all); err != nil {
		log.Printf("write HTML report error: %v", err)
	}

	if created != 1 {
		return fmt.Errorf("expected exactly 1 successful registration for %q, got %d", username, created)
	}
	log.Printf("race test passed: %d workers, 1 registration created for %q", workers, username)
	return nil
}

// ======================= reports =======================

func writeCSVReport(path string, results []raceResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()
	_ = w.Write([]string{"Worker", "Outcome", "Error", "Timestamp"})
	for _, r := range results {
		_ = w.Write([]string{
			fmt.Sprintf("%d", r.Worker), r.Outcome, r.ErrMsg,
			r.Timestamp.Format(time.RFC3339Nano),
		})
	}
	return nil
}

// writeHTMLReport renders a basic table so failures are easy to eyeball.
func writeHTMLReport(path string, results []raceResult) error {
	const tpl = `
<!doctype html>
<html>
<head><meta charset="utf-8"><title>Registration Race Report</title>
<style>
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #ddd; padding: 8px; text-align:left }
th { background: #f4f4f4; }
</style>
</head>
<body>
<h2>Registration Race Report ({{ .GeneratedAt }})</h2>
<table>
<thead><tr><th>Worker</th><th>Outcome</th><th>Error</th><th>Timestamp</th></tr></thead>
<tbody>
{{ range .Rows }}
<tr>
<td>{{ .Worker }}</td>
<td>{{ .Outcome }}</td>
<td>{{ .ErrMsg }}</td>
<td>{{ .Timestamp }}</td>
</tr>
{{ end }}
</tbody>
</table>
</body>
</html>`

	data := struct {
		GeneratedAt string
		Rows        []raceResult
	}{
		GeneratedAt: time.Now().Format(time.RFC3339),
		Rows:        results,
	}

	t, err := template.New("report").Parse(tpl)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return t.Execute(f, data)
}

// ======================= main =======================

func main() {
	if v := strings.TrimSpace(os.Getenv("STRESS_BASE_URL")); v != "" {
		baseURL = v
	}
	workers := 10
	outCSV := "register_race_report.csv"
	outHTML := "register_race_report.html"

	if err := smokeTest(); err != nil {
		log.Fatalf("smoke test failed: %v", err)
	}

	start := time.Now()
	if err := concurrentRegisterTest(workers, outCSV, outHTML); err != nil {
		log.Fatalf("concurrent registration test failed: %v", err)
	}
	log.Printf("concurrent test finished in %s, CSV=%s HTML=%s\n", time.Since(start), outCSV, outHTML)
	fmt.Println("All stress tests completed successfully!")
}
