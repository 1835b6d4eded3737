package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// HTTPTestCase represents a request against an http.Handler and its expected outcome
type HTTPTestCase struct {
	Name    string
	Method  string
	Path    string
	Body    any
	Headers map[string]string
	// Setup runs before the request, typically to program mocks
	Setup          func(t *testing.T)
	ExpectedStatus int
	// ExpectedCode is the error code expected in an error response
	ExpectedCode string
	Validate     func(t *testing.T, tc *TestContext)
}

// TestContext carries the recorded response of one test case
type TestContext struct {
	Recorder *httptest.ResponseRecorder
}

// ResponseBody returns the raw response body
func (tc *TestContext) ResponseBody() []byte {
	return tc.Recorder.Body.Bytes()
}

// RunHTTPTestCases runs every case as a subtest
func RunHTTPTestCases(t *testing.T, handler http.Handler, cases []HTTPTestCase) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			RunHTTPTestCase(t, handler, tc)
		})
	}
}

// RunHTTPTestCase sends tc's request to handler and checks the response
func RunHTTPTestCase(t *testing.T, handler http.Handler, tc HTTPTestCase) *TestContext {
	t.Helper()

	if tc.Setup != nil {
		tc.Setup(t)
	}

	var body io.Reader
	if tc.Body != nil {
		if raw, ok := tc.Body.(string); ok {
			body = bytes.NewBufferString(raw)
		} else {
			body = ToJSONReader(t, tc.Body)
		}
	}
	method := tc.Method
	if method == "" {
		method = http.MethodGet
	}
	req := httptest.NewRequest(method, tc.Path, body)
	if tc.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range tc.Headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	testCtx := &TestContext{Recorder: w}

	if tc.ExpectedStatus != 0 {
		assert.Equal(t, tc.ExpectedStatus, w.Code, "unexpected status code: %s", w.Body.String())
	}
	if tc.ExpectedCode != "" {
		AssertErrorResponse(t, testCtx, tc.ExpectedCode)
	}
	if tc.Validate != nil {
		tc.Validate(t, testCtx)
	}
	return testCtx
}

// JSONResponse parses the response body as a JSON object
func JSONResponse(t *testing.T, tc *TestContext) map[string]any {
	t.Helper()
	return JSONResponseAs[map[string]any](t, tc)
}

// JSONResponseAs parses the response body into T
func JSONResponseAs[T any](t *testing.T, tc *TestContext) T {
	t.Helper()
	var result T
	require.NoError(t, json.Unmarshal(tc.ResponseBody(), &result), "failed to parse JSON response")
	return result
}

// AssertSuccessResponse asserts the response is a successful API response
func AssertSuccessResponse(t *testing.T, tc *TestContext) {
	t.Helper()
	resp := JSONResponse(t, tc)
	assert.Equal(t, true, resp["success"])
	assert.Nil(t, resp["error"])
}

// AssertErrorResponse asserts the response is an error with expectedCode
func AssertErrorResponse(t *testing.T, tc *TestContext, expectedCode string) {
	t.Helper()
	resp := JSONResponse(t, tc)
	assert.Equal(t, false, resp["success"])

	errMap, ok := resp["error"].(map[string]any)
	require.True(t, ok, "expected error object in response")
	assert.Equal(t, expectedCode, errMap["code"])
}

// ToJSONReader converts a value to a JSON io.Reader
func ToJSONReader(t *testing.T, v any) io.Reader {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err, "failed to marshal to JSON")
	return bytes.NewReader(data)
}
