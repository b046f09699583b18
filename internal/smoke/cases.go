package smoke

import (
	"fmt"
	"net/http"
	"slices"
)

// Case is one request and the response it must produce.
type Case struct {
	Name   string
	Method string
	Path   string
	Body   string
	// Status lists acceptable status codes.
	Status []int
	// Data is the expected compact JSON of the data field; empty skips.
	Data string
	// Message is the expected failure message; empty skips.
	Message string
	// Text is the expected plain-text body; empty means a JSON envelope.
	Text string
	// NonEmptyString requires data to be a non-empty JSON string.
	NonEmptyString bool
}

// Cases returns the checks in a stable order.
func Cases(withAI bool) []Case {
	ok := []int{http.StatusOK}
	bad := []int{http.StatusBadRequest}
	argument := []int{http.StatusBadRequest, http.StatusInternalServerError}

	cases := []Case{
		{Name: "root banner", Method: http.MethodGet, Path: "/", Status: ok, Text: "Server is Running"},
		{Name: "health", Method: http.MethodGet, Path: "/health", Status: ok},
		{Name: "fibonacci 7", Method: http.MethodPost, Path: "/bfhl", Body: `{"fibonacci":7}`, Status: ok, Data: `[0,1,1,2,3,5,8]`},
		{Name: "fibonacci 0", Method: http.MethodPost, Path: "/bfhl", Body: `{"fibonacci":0}`, Status: ok, Data: `[]`},
		{Name: "fibonacci negative", Method: http.MethodPost, Path: "/bfhl", Body: `{"fibonacci":-1}`, Status: bad, Message: "Invalid fibonacci input"},
		{Name: "prime filter", Method: http.MethodPost, Path: "/bfhl", Body: `{"prime":[2,4,7,9,11]}`, Status: ok, Data: `[2,7,11]`},
		{Name: "prime not array", Method: http.MethodPost, Path: "/bfhl", Body: `{"prime":5}`, Status: bad, Message: "Prime expects an array"},
		{Name: "lcm", Method: http.MethodPost, Path: "/bfhl", Body: `{"lcm":[4,6]}`, Status: ok, Data: `12`},
		{Name: "lcm empty", Method: http.MethodPost, Path: "/bfhl", Body: `{"lcm":[]}`, Status: argument, Message: "LCM expects non-empty array"},
		{Name: "hcf", Method: http.MethodPost, Path: "/bfhl", Body: `{"hcf":[12,18]}`, Status: ok, Data: `6`},
		{Name: "unknown key", Method: http.MethodPost, Path: "/bfhl", Body: `{"unknown":1}`, Status: bad, Message: "Invalid key"},
		{Name: "two keys", Method: http.MethodPost, Path: "/bfhl", Body: `{"fibonacci":3,"prime":[2]}`, Status: bad, Message: "Exactly one key is required"},
		{Name: "no keys", Method: http.MethodPost, Path: "/bfhl", Body: `{}`, Status: bad, Message: "Exactly one key is required"},
	}
	if withAI {
		cases = append(cases, Case{
			Name: "AI", Method: http.MethodPost, Path: "/bfhl",
			Body: `{"AI":"What is the capital of France? Answer in one word."}`, Status: ok, NonEmptyString: true,
		})
	}
	return cases
}

// check validates resp against c. email is the expected official_email,
// or empty to accept any non-empty value.
func (c Case) check(resp response, email string) error {
	if !slices.Contains(c.Status, resp.status) {
		return fmt.Errorf("status %d, want one of %v", resp.status, c.Status)
	}
	if c.Text != "" {
		if string(resp.body) != c.Text {
			return fmt.Errorf("body %q, want %q", resp.body, c.Text)
		}
		return nil
	}

	env, err := resp.envelope()
	if err != nil {
		return err
	}
	switch {
	case env.OfficialEmail == "":
		return fmt.Errorf("official_email missing")
	case email != "" && env.OfficialEmail != email:
		return fmt.Errorf("official_email %q, want %q", env.OfficialEmail, email)
	}

	success := resp.status == http.StatusOK
	if env.IsSuccess != success {
		return fmt.Errorf("is_success %t with status %d", env.IsSuccess, resp.status)
	}
	if success {
		return c.checkSuccess(env)
	}
	return c.checkFailure(env)
}

func (c Case) checkSuccess(env envelope) error {
	if env.Message != nil {
		return fmt.Errorf("unexpected message %q", *env.Message)
	}
	if c.Data != "" {
		if got := compactJSON(env.Data); got != c.Data {
			return fmt.Errorf("data %s, want %s", got, c.Data)
		}
	}
	if c.NonEmptyString {
		got := compactJSON(env.Data)
		if len(got) < 3 || got[0] != '"' {
			return fmt.Errorf("data %s, want a non-empty string", got)
		}
	}
	return nil
}

func (c Case) checkFailure(env envelope) error {
	if len(env.Data) > 0 {
		return fmt.Errorf("unexpected data %s", compactJSON(env.Data))
	}
	if env.Message == nil {
		return fmt.Errorf("message missing")
	}
	if c.Message != "" && *env.Message != c.Message {
		return fmt.Errorf("message %q, want %q", *env.Message, c.Message)
	}
	return nil
}
