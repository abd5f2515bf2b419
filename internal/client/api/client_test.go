package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"
)

// roundTripperFunc lets tests stub the http.Client transport.
type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestClient(fn roundTripperFunc) *Client {
	return New("http://example.com", WithHTTPClient(&http.Client{
		Transport: fn,
		Timeout:   time.Second,
	}))
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestLogin_Success(t *testing.T) {
	c := newTestClient(func(req *http.Request) (*http.Response, error) {
		if req.Method != http.MethodPost || req.URL.Path != "/api/v1/login" {
			t.Errorf("unexpected request: %s %s", req.Method, req.URL.Path)
		}
		if got := req.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("content type = %q", got)
		}
		return jsonResponse(200, `{"access_token":"tok123","token_type":"bearer"}`), nil
	})

	token, err := c.Login(context.Background(), "a@b.c", "password1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "tok123" {
		t.Errorf("token = %q; want tok123", token)
	}
}

func TestLogin_NetworkError(t *testing.T) {
	c := newTestClient(func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})

	_, err := c.Login(context.Background(), "a@b.c", "pw")
	if !IsNetwork(err) {
		t.Fatalf("expected network error, got %v", err)
	}
}

func TestProfile_SendsBearerToken(t *testing.T) {
	c := newTestClient(func(req *http.Request) (*http.Response, error) {
		if got := req.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q", got)
		}
		return jsonResponse(200, `{"email":"a@b.c","username":"ann","bio":"hi"}`), nil
	})

	p, err := c.Profile(context.Background(), "tok")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Username != "ann" || p.Bio != "hi" {
		t.Errorf("profile = %+v", p)
	}
}

func TestProfile_AuthError(t *testing.T) {
	c := newTestClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(401, `{"message":"invalid credentials"}`), nil
	})

	_, err := c.Profile(context.Background(), "stale")
	if !IsAuth(err) {
		t.Fatalf("expected auth error, got %v", err)
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Message != "invalid credentials" {
		t.Errorf("error = %v", err)
	}
}

func TestContacts_EmptyMarker(t *testing.T) {
	c := newTestClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(404, `{"message":"No contact information found for the user."}`), nil
	})

	_, err := c.Contacts(context.Background(), "tok")
	if !IsEmptyResult(err) {
		t.Fatalf("expected empty-result error, got %v", err)
	}
}

func TestContacts_PlainNotFound(t *testing.T) {
	c := newTestClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(404, `{"message":"user not found"}`), nil
	})

	_, err := c.Contacts(context.Background(), "tok")
	if IsEmptyResult(err) {
		t.Fatal("plain 404 must not be classified as empty result")
	}
}

func TestAddContact_ValidationDetail(t *testing.T) {
	c := newTestClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(422, `{"detail":[{"loc":["body","contact_value"],"msg":"field required","type":"value_error.missing"}]}`), nil
	})

	_, err := c.AddContact(context.Background(), "tok", contactFixture())
	if !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Message != "field required" {
		t.Errorf("message = %v; want the detail msg verbatim", err)
	}
}

func TestDeleteContact_BodyCarriesID(t *testing.T) {
	c := newTestClient(func(req *http.Request) (*http.Response, error) {
		if req.Method != http.MethodDelete {
			t.Errorf("method = %s", req.Method)
		}
		b, _ := io.ReadAll(req.Body)
		if !strings.Contains(string(b), `"contact_id":"c1"`) {
			t.Errorf("body = %s", b)
		}
		return jsonResponse(200, `{"message":"Contact deleted"}`), nil
	})

	msg, err := c.DeleteContact(context.Background(), "tok", "c1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg != "Contact deleted" {
		t.Errorf("message = %q", msg)
	}
}

func TestRegister_MultipartParts(t *testing.T) {
	c := newTestClient(func(req *http.Request) (*http.Response, error) {
		ct := req.Header.Get("Content-Type")
		if !strings.HasPrefix(ct, "multipart/form-data") {
			t.Errorf("content type = %q", ct)
		}
		if err := req.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := req.FormValue("email"); got != "a@b.c" {
			t.Errorf("email = %q", got)
		}
		if _, _, err := req.FormFile("palm_image"); err != nil {
			t.Errorf("palm_image part missing: %v", err)
		}
		return jsonResponse(200, `{"message":"Registration Successful","email":"a@b.c","username":"ann"}`), nil
	})

	resp, err := c.Register(context.Background(), RegisterRequest{
		PalmImage: []byte{0xff, 0xd8},
		ImageName: "palm.jpg",
		Email:     "a@b.c",
		Username:  "ann",
		Password:  "password1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Username != "ann" {
		t.Errorf("username = %q", resp.Username)
	}
}

func TestRecognizePalm_MergesUserAndProfile(t *testing.T) {
	c := newTestClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(200, `{
			"user":{"email":"ann@b.c","username":"ann"},
			"profile":{"name":"ann","bio":"hello","job_title":"dev","company":"acme"}
		}`), nil
	})

	p, err := c.RecognizePalm(context.Background(), "tok", []byte{1}, "palm.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Email != "ann@b.c" || p.Username != "ann" || p.Company != "acme" {
		t.Errorf("profile = %+v", p)
	}
}

func TestHistory_DecodesBothFeeds(t *testing.T) {
	c := newTestClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(200, `{
			"who_scanned_me":[{"time_scanned":"2024-06-10T09:00:00","profile":{"name":"bob"},"contacts":[]}],
			"who_i_scanned":[]
		}`), nil
	})

	h, err := c.History(context.Background(), "tok")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(h.WhoScannedMe) != 1 || h.WhoScannedMe[0].Profile.Name != "bob" {
		t.Errorf("history = %+v", h)
	}
}
