package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/okian/bfhl/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

// isolateEnv clears variables that would leak host configuration into the
// tests and restores them afterwards.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(key, config.EnvPrefix) || key == "PORT" || key == "GEMINI_API_KEY" {
			t.Setenv(key, "")
			_ = os.Unsetenv(key)
		}
	}
}

func execute(ctx context.Context, args ...string) (string, string, error) {
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(""))
	err := root.ExecuteContext(ctx)
	return out.String(), errOut.String(), err
}

func TestVersionCommand(t *testing.T) {
	convey.Convey("Given the version command", t, func() {
		out, _, err := execute(context.Background(), "version")

		convey.So(err, convey.ShouldBeNil)
		convey.So(out, convey.ShouldStartWith, "bfhl dev")
	})
}

func TestEvalCommand(t *testing.T) {
	isolateEnv(t)

	convey.Convey("Given the eval command", t, func() {
		ctx := context.Background()

		convey.Convey("When a valid body is passed as an argument", func() {
			out, _, err := execute(ctx, "eval", `{"fibonacci":5}`)

			convey.Convey("Then the success envelope is printed", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldEqual,
					`{"is_success":true,"official_email":"`+config.DefaultOfficialEmail+`","data":[0,1,1,2,3]}`+"\n")
			})
		})

		convey.Convey("When the body comes from stdin", func() {
			var outBuf bytes.Buffer
			root := newRootCmd()
			root.SetArgs([]string{"eval"})
			root.SetOut(&outBuf)
			root.SetErr(&bytes.Buffer{})
			root.SetIn(strings.NewReader(`{"hcf":[12,18]}`))

			err := root.ExecuteContext(ctx)
			convey.So(err, convey.ShouldBeNil)
			convey.So(outBuf.String(), convey.ShouldContainSubstring, `"data":6`)
		})

		convey.Convey("When the body is invalid", func() {
			out, _, err := execute(ctx, "eval", `{"unknown":1}`)

			convey.Convey("Then the failure envelope is printed and an error returned", func() {
				convey.So(errors.Is(err, errOperationFailed), convey.ShouldBeTrue)
				convey.So(out, convey.ShouldContainSubstring, `"is_success":false`)
				convey.So(out, convey.ShouldContainSubstring, `"message":"Invalid key"`)
			})
		})

		convey.Convey("When AI is requested without a key", func() {
			out, _, err := execute(ctx, "eval", `{"AI":"hello"}`)

			convey.So(err, convey.ShouldNotBeNil)
			convey.So(out, convey.ShouldContainSubstring, "AI service is not configured")
		})

		convey.Convey("When help is requested", func() {
			out, _, err := execute(ctx, "eval", "--help")

			convey.Convey("Then the operation limits are documented", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "BFHL_MAX_FIBONACCI_TERMS")
				convey.So(out, convey.ShouldContainSubstring, "BFHL_MAX_PRIME_ELEMENTS")
				convey.So(out, convey.ShouldContainSubstring, "BFHL_COMPUTE_TIMEOUT_MS")
			})
		})

		convey.Convey("When the prime cap is lowered", func() {
			t.Setenv("BFHL_MAX_PRIME_ELEMENTS", "1")
			out, _, err := execute(ctx, "eval", `{"prime":[2,3]}`)

			convey.So(errors.Is(err, errOperationFailed), convey.ShouldBeTrue)
			convey.So(out, convey.ShouldContainSubstring, `"message":"Prime array is too long"`)
		})

		convey.Convey("When the configuration is invalid", func() {
			t.Setenv("BFHL_AI_BACKEND", "carrier-pigeon")
			_, _, err := execute(ctx, "eval", `{"fibonacci":1}`)

			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})
	})
}

func TestHandler(t *testing.T) {
	isolateEnv(t)

	convey.Convey("Given the assembled HTTP handler", t, func() {
		ctx := context.Background()
		c := &cli{}
		convey.So(c.setup(ctx, &bytes.Buffer{}), convey.ShouldBeNil)

		h, err := c.newHandler(ctx)
		convey.So(err, convey.ShouldBeNil)

		get := func(path string) *httptest.ResponseRecorder {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, http.NoBody))
			return w
		}

		convey.Convey("Then the root banner is served", func() {
			w := get("/")
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(w.Body.String(), convey.ShouldEqual, "Server is Running")
		})

		convey.Convey("And health, docs and metrics are served", func() {
			convey.So(get("/health").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/openapi.yaml").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/api-docs").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/metrics").Code, convey.ShouldEqual, http.StatusOK)
		})

		convey.Convey("And POST /bfhl dispatches", func() {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/bfhl", strings.NewReader(`{"lcm":[4,6]}`)))
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(w.Body.String(), convey.ShouldContainSubstring, `"data":12`)
		})
	})
}

func TestServe(t *testing.T) {
	isolateEnv(t)
	t.Setenv("BFHL_ADDR", "127.0.0.1:0")

	convey.Convey("Given a server started on an ephemeral port", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		c := &cli{}
		convey.So(c.setup(ctx, &bytes.Buffer{}), convey.ShouldBeNil)

		done := make(chan error, 1)
		go func() { done <- c.serve(ctx) }()

		convey.Convey("When the context is cancelled", func() {
			time.Sleep(50 * time.Millisecond)
			cancel()

			convey.Convey("Then serve returns cleanly", func() {
				select {
				case err := <-done:
					convey.So(err, convey.ShouldBeNil)
				case <-time.After(5 * time.Second):
					convey.So("serve did not return", convey.ShouldBeEmpty)
				}
			})
		})
	})
}

func TestLocalURL(t *testing.T) {
	convey.Convey("Given listen addresses", t, func() {
		convey.So(localURL(":3000"), convey.ShouldEqual, "http://localhost:3000")
		convey.So(localURL("0.0.0.0:8080"), convey.ShouldEqual, "http://localhost:8080")
		convey.So(localURL("127.0.0.1:9"), convey.ShouldEqual, "http://127.0.0.1:9")
	})
}
