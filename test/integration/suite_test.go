//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/cucumber/godog"
)

// testContext holds state shared across step definitions within a scenario.
type testContext struct {
	baseURL      string
	client       *http.Client
	response     *http.Response
	responseBody []byte
}

// newTestContext targets BASE_URL when set, otherwise an in-process server.
func newTestContext(t *testing.T) *testContext {
	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = newInProcessServer(t).URL
	}

	return &testContext{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// reset clears response state between scenarios.
func (tc *testContext) reset() {
	if tc.response != nil && tc.response.Body != nil {
		tc.response.Body.Close()
	}
	tc.response = nil
	tc.responseBody = nil
}

// initializeScenario registers step definitions for each scenario.
func initializeScenario(tc *testContext) func(*godog.ScenarioContext) {
	return func(ctx *godog.ScenarioContext) {
		ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
			tc.reset()
			return ctx, nil
		})

		ctx.After(func(ctx context.Context, _ *godog.Scenario, _ error) (context.Context, error) {
			tc.reset()
			return ctx, nil
		})

		ctx.Step(`^the service is running$`, tc.theServiceIsRunning)
		ctx.Step(`^I request GET "([^"]*)"$`, tc.iRequestGET)
		ctx.Step(`^the response status should be (\d+)$`, tc.theResponseStatusShouldBe)
		ctx.Step(`^the response should contain "([^"]*)"$`, tc.theResponseShouldContain)
		ctx.Step(`^the response should not contain "([^"]*)"$`, tc.theResponseShouldNotContain)
		ctx.Step(`^the globals dict should have (\d+) entries$`, tc.theGlobalsDictShouldHaveEntries)
		ctx.Step(`^the globals dict should be empty$`, tc.theGlobalsDictShouldBeEmpty)
	}
}

// theServiceIsRunning verifies the service is reachable.
func (tc *testContext) theServiceIsRunning() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, tc.baseURL+"/-/live", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := tc.client.Do(req)
	if err != nil {
		return fmt.Errorf("service is not running at %s: %w", tc.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service health check failed with status %d", resp.StatusCode)
	}

	return nil
}

// iRequestGET makes a GET request to the specified path.
func (tc *testContext) iRequestGET(path string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, tc.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	tc.response, err = tc.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	tc.responseBody, err = io.ReadAll(tc.response.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	return nil
}

// theResponseStatusShouldBe asserts the response status code.
func (tc *testContext) theResponseStatusShouldBe(expectedCode int) error {
	if tc.response == nil {
		return fmt.Errorf("no response received")
	}

	if tc.response.StatusCode != expectedCode {
		return fmt.Errorf("expected status %d, got %d. Body: %s",
			expectedCode, tc.response.StatusCode, string(tc.responseBody))
	}

	return nil
}

// theResponseShouldContain asserts the response body contains the given text.
func (tc *testContext) theResponseShouldContain(text string) error {
	if tc.responseBody == nil {
		return fmt.Errorf("no response body")
	}

	if !strings.Contains(string(tc.responseBody), text) {
		return fmt.Errorf("response body does not contain %q.\nBody: %s", text, string(tc.responseBody))
	}

	return nil
}

// theResponseShouldNotContain asserts the response body omits the given text.
func (tc *testContext) theResponseShouldNotContain(text string) error {
	if strings.Contains(string(tc.responseBody), text) {
		return fmt.Errorf("response body unexpectedly contains %q.\nBody: %s", text, string(tc.responseBody))
	}

	return nil
}

// theGlobalsDictShouldHaveEntries asserts the size of the global_dict field.
func (tc *testContext) theGlobalsDictShouldHaveEntries(expected int) error {
	dict, err := tc.globalsDict()
	if err != nil {
		return err
	}

	if len(dict) != expected {
		return fmt.Errorf("expected %d entries in global_dict, got %d: %v", expected, len(dict), dict)
	}

	return nil
}

// theGlobalsDictShouldBeEmpty asserts global_dict carries no entries.
func (tc *testContext) theGlobalsDictShouldBeEmpty() error {
	return tc.theGlobalsDictShouldHaveEntries(0)
}

func (tc *testContext) globalsDict() (map[string]any, error) {
	var payload struct {
		GlobalDict map[string]any `json:"global_dict"`
	}

	if err := json.Unmarshal(tc.responseBody, &payload); err != nil {
		return nil, fmt.Errorf("response is not a globals snapshot: %w.\nBody: %s", err, string(tc.responseBody))
	}

	return payload.GlobalDict, nil
}

// TestFeatures runs the GoDog BDD test suite.
func TestFeatures(t *testing.T) {
	tc := newTestContext(t)

	suite := godog.TestSuite{
		ScenarioInitializer: initializeScenario(tc),
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"../features"},
			TestingT: t,
			Tags:     os.Getenv("GODOG_TAGS"),
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
