// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package gin_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"

	gingonic "github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/momeni/furucamera/internal/test/fakes"
	"github.com/momeni/furucamera/pkg/adapter/config"
	"github.com/momeni/furucamera/pkg/adapter/metrics"
	"github.com/momeni/furucamera/pkg/adapter/restful/gin"
	"github.com/momeni/furucamera/pkg/adapter/restful/gin/routes"
	"github.com/momeni/furucamera/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/furucamera/pkg/core/model"
	"github.com/stretchr/testify/suite"
)

const testConfig = `
database:
  host: 127.0.0.1
  name: fcweb
  user: fcweb
  password: secret
gin:
  logger: false
  recovery: true
  mode: test
  max-body-size: 65536
storage:
  endpoint: 127.0.0.1:9000
  access-key: access
  secret-key: secret
session:
  secret: 0123456789abcdef0123456789abcdef
admin:
  username: admin
  password-hash: SCRAM-SHA-256$4096:ZnVydWNhbWVyYS1zYW1wbGUtc2FsdCEh$MQ/mAyTYb3r0luNizdsPm9O49FJO9VtJL1agyr9zIW0=:VpNTpG25/6f4mzej28CYtn5RWKeQAUVrhFm4N4DChpM=
usecases:
  listings:
    max-batch: 10
  contact:
    phone: "971500000000"
`

const base = routes.BasePath

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type RESTTestSuite struct {
	suite.Suite

	Ctx      context.Context
	Pool     *fakes.Pool
	Listings *fakes.Listings
	Images   *fakes.ImageStore
	Fallback *fakes.FallbackStore
	Gin      *gin.Engine
	Cookies  []*http.Cookie
}

func TestRESTTestSuite(t *testing.T) {
	suite.Run(t, &RESTTestSuite{Ctx: context.Background()})
}

func (rts *RESTTestSuite) SetupTest() {
	c, err := config.Parse([]byte(testConfig))
	rts.Require().NoError(err, "failed to parse test configs")
	rts.Pool = &fakes.Pool{}
	rts.Listings = fakes.NewListings()
	rts.Images = fakes.NewImageStore("https://store.test")
	rts.Fallback = &fakes.FallbackStore{}
	rts.Gin = c.Gin.NewEngine(slog.Default())
	rts.Require().NotNil(rts.Gin, "cannot instantiate Gin engine")
	_, err = routes.Register(rts.Gin, routes.Adapters{
		Pool:        rts.Pool,
		Listings:    rts.Listings,
		Images:      rts.Images,
		Fallback:    rts.Fallback,
		Sessions:    c.Session.NewStore(),
		SessionName: c.Session.Name,
		Metrics:     metrics.New(),
	}, c)
	rts.Require().NoError(err, "failed to register Gin routes")
	rts.Cookies = nil
}

func urlEncoded(m map[string]string) io.Reader {
	u := url.Values{}
	for k, v := range m {
		u.Set(k, v)
	}
	return strings.NewReader(u.Encode())
}

type part struct {
	name, contentType string
	data              []byte
}

func multipartBody(fields map[string]string, files ...part) (io.Reader, string) {
	b := &bytes.Buffer{}
	w := multipart.NewWriter(b)
	for k, v := range fields {
		_ = w.WriteField(k, v)
	}
	for _, f := range files {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", fmt.Sprintf(
			`form-data; name="files"; filename="%s"`, f.name,
		))
		if f.contentType != "" {
			h.Set("Content-Type", f.contentType)
		}
		pw, _ := w.CreatePart(h)
		_, _ = pw.Write(f.data)
	}
	_ = w.Close()
	return b, w.FormDataContentType()
}

func (rts *RESTTestSuite) send(
	method, path string, body io.Reader, contentType string, res any,
) *httptest.ResponseRecorder {
	req, err := http.NewRequest(method, base+path, body)
	rts.Require().NoError(err, "cannot create request")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for _, c := range rts.Cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	rts.Gin.ServeHTTP(w, req)
	if res != nil {
		rts.Require().NoError(
			json.Unmarshal(w.Body.Bytes(), res),
			"cannot decode %q", w.Body.String(),
		)
	}
	return w
}

func (rts *RESTTestSuite) sendForm(
	method, path string, form map[string]string, res any,
) *httptest.ResponseRecorder {
	return rts.send(method, path, urlEncoded(form),
		"application/x-www-form-urlencoded", res,
	)
}

type noticesResp struct {
	Detail  string
	Notices []model.Notice
}

func (rts *RESTTestSuite) login() {
	res := &noticesResp{}
	w := rts.sendForm(http.MethodPost, "/admin/login", map[string]string{
		"username": "admin",
		"password": "vintage123",
	}, res)
	rts.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	rts.Equal([]model.Notice{
		model.Success("Login successful", "Welcome to the admin panel"),
	}, res.Notices)
	rts.Cookies = w.Result().Cookies()
	rts.Require().NotEmpty(rts.Cookies, "session cookie is missing")
}

func (rts *RESTTestSuite) TestStatus() {
	res := &struct {
		State     string
		Label     string
		Connected bool
	}{}
	w := rts.send(http.MethodGet, "/status", nil, "", res)
	rts.Equal(http.StatusOK, w.Code)
	rts.Equal("connected", res.State)
	rts.Equal("Database Connected", res.Label)
	rts.NotEmpty(w.Header().Get(gin.RequestIDHeader))

	rts.Pool.Fail(fakes.ErrOffline)
	w = rts.send(http.MethodGet, "/status", nil, "", res)
	rts.Equal(http.StatusOK, w.Code)
	rts.Equal("offline", res.State)
	rts.Equal("Database Offline", res.Label)
	rts.False(res.Connected)
}

func (rts *RESTTestSuite) TestAdminGate() {
	w := rts.send(http.MethodGet, "/admin/listings", nil, "", nil)
	rts.Equal(http.StatusUnauthorized, w.Code)

	res := &noticesResp{}
	w = rts.sendForm(http.MethodPost, "/admin/login", map[string]string{
		"username": "admin",
		"password": "wrong",
	}, res)
	rts.Equal(http.StatusUnauthorized, w.Code)
	rts.Equal([]model.Notice{
		model.Failure("Login failed", "Invalid credentials"),
	}, res.Notices)

	rts.login()
	session := &struct{ Authenticated bool }{}
	rts.send(http.MethodGet, "/admin/session", nil, "", session)
	rts.True(session.Authenticated)
	w = rts.send(http.MethodGet, "/admin/listings", nil, "", nil)
	rts.Equal(http.StatusOK, w.Code)

	w = rts.send(http.MethodPost, "/admin/logout", nil, "", nil)
	rts.Equal(http.StatusOK, w.Code)
	rts.Cookies = w.Result().Cookies()
	rts.send(http.MethodGet, "/admin/session", nil, "", session)
	rts.False(session.Authenticated)
}

type listingResp struct {
	Listing *model.Listing
	Notices []model.Notice
	Detail  string
}

func (rts *RESTTestSuite) TestListingLifecycle() {
	rts.login()
	created := &listingResp{}
	w := rts.sendForm(http.MethodPost, "/admin/listings", map[string]string{
		"title":     "Nikon FM2",
		"price":     "1650",
		"brand":     "Nikon",
		"condition": "Very Good",
		"images":    "https://a/1.jpg, https://a/2.jpg",
	}, created)
	rts.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	rts.Equal([]string{"https://a/1.jpg", "https://a/2.jpg"}, created.Listing.Images)
	rts.Equal("Listing added", created.Notices[0].Title)
	id := created.Listing.ID.String()

	updated := &listingResp{}
	w = rts.sendForm(http.MethodPatch, "/admin/listings/"+id, map[string]string{
		"price": "1500",
	}, updated)
	rts.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	rts.Equal(1500.0, updated.Listing.Price)
	rts.Equal("Nikon FM2", updated.Listing.Title)
	rts.Equal(created.Listing.Images, updated.Listing.Images)
	rts.True(updated.Listing.UpdatedAt.After(*created.Listing.UpdatedAt))

	list := &struct{ Listings []*model.Listing }{}
	rts.send(http.MethodGet, "/admin/listings", nil, "", list)
	rts.Require().Len(list.Listings, 1)
	rts.Equal(1500.0, list.Listings[0].Price)

	link := &struct{ URL string }{}
	w = rts.send(http.MethodGet, "/listings/"+id+"/contact", nil, "", link)
	rts.Equal(http.StatusOK, w.Code)
	rts.True(strings.HasPrefix(link.URL, "https://wa.me/971500000000?text="), link.URL)

	deleted := &listingResp{}
	w = rts.send(http.MethodDelete, "/admin/listings/"+id, nil, "", deleted)
	rts.Equal(http.StatusOK, w.Code)
	rts.Equal("Listing deleted", deleted.Notices[0].Title)
	rts.send(http.MethodGet, "/admin/listings", nil, "", list)
	rts.Empty(list.Listings)

	w = rts.send(http.MethodGet, "/listings/"+id, nil, "", nil)
	rts.Equal(http.StatusNotFound, w.Code)
}

func (rts *RESTTestSuite) TestListingBadRequests() {
	rts.login()
	res := &listingResp{}
	w := rts.sendForm(http.MethodPost, "/admin/listings", map[string]string{
		"title": "Canon AE-1",
		"price": "-1",
	}, res)
	rts.Equal(http.StatusBadRequest, w.Code)
	rts.Equal("Add failed", res.Notices[0].Title)
	rts.Equal(0, rts.Listings.Calls(), "no query for a negative price")

	w = rts.sendForm(http.MethodPost, "/admin/listings", map[string]string{
		"price": "10",
	}, nil)
	rts.Equal(http.StatusBadRequest, w.Code, "title is required")

	w = rts.sendForm(http.MethodPatch, "/admin/listings/not-a-uuid",
		map[string]string{"price": "10"}, nil,
	)
	rts.Equal(http.StatusBadRequest, w.Code)
}

func (rts *RESTTestSuite) TestBrowseFallback() {
	rts.Pool.Fail(fakes.ErrOffline)
	res := &struct {
		Listings []*model.Listing
		Source   string
	}{}
	w := rts.send(http.MethodGet, "/listings", nil, "", res)
	rts.Equal(http.StatusOK, w.Code)
	rts.Equal("fallback", res.Source)
	rts.Equal(model.Samples(), res.Listings)
	rts.Equal(1, rts.Fallback.Saves())

	detail := &struct {
		Listing *model.Listing
		Related []*model.Listing
	}{}
	w = rts.send(http.MethodGet, "/listings/"+res.Listings[0].ID.String(),
		nil, "", detail,
	)
	rts.Equal(http.StatusOK, w.Code)
	rts.Equal(res.Listings[0], detail.Listing)
}

type intakeResp struct {
	Intake struct {
		ID     string
		State  string
		Images []string
	}
	Images   string
	MaxBatch int `json:"max_batch"`
}

type outcomeResp struct {
	Images  []string
	Added   int
	Notices []model.Notice
	Detail  string
}

func (rts *RESTTestSuite) openIntake(form map[string]string) *intakeResp {
	res := &intakeResp{}
	w := rts.sendForm(http.MethodPost, "/admin/intakes", form, res)
	rts.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	return res
}

func (rts *RESTTestSuite) TestIntakeFlow() {
	rts.login()
	in := rts.openIntake(nil)
	rts.Equal("idle", in.Intake.State)
	rts.Equal(10, in.MaxBatch)
	path := "/admin/intakes/" + in.Intake.ID

	snap := &struct{ State string }{}
	w := rts.sendForm(http.MethodPatch, path, map[string]string{
		"op": "drag-enter",
	}, snap)
	rts.Equal(http.StatusOK, w.Code)
	rts.Equal("dragging", snap.State)

	body, ct := multipartBody(map[string]string{"via": "drop"},
		part{"a.png", "image/png", pngBytes},
		part{"b", "application/octet-stream", pngBytes},
		part{"notes.txt", "text/plain", []byte("hello")},
	)
	out := &outcomeResp{}
	w = rts.send(http.MethodPost, path+"/files", body, ct, out)
	rts.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	rts.Equal(2, out.Added, "sniffed png is accepted, text is filtered")
	rts.Require().Len(out.Images, 2)
	for _, img := range out.Images {
		rts.True(strings.HasPrefix(img, "https://store.test/camera-images/uploads/"), img)
	}
	rts.Equal(2, rts.Images.Puts())
	rts.Equal("Images uploaded", out.Notices[len(out.Notices)-1].Title)

	rts.send(http.MethodGet, path, nil, "", snap)
	rts.Equal("idle", snap.State)

	w = rts.send(http.MethodDelete, path+"/images/0", nil, "", out)
	rts.Equal(http.StatusOK, w.Code)
	rts.Require().Len(out.Images, 1)
	kept := out.Images[0]
	w = rts.send(http.MethodDelete, path+"/images/5", nil, "", nil)
	rts.Equal(http.StatusBadRequest, w.Code)

	created := &listingResp{}
	w = rts.sendForm(http.MethodPost, "/admin/listings", map[string]string{
		"title":  "Canon AE-1 Program",
		"price":  "1100",
		"intake": in.Intake.ID,
		"images": "https://a/1.jpg",
	}, created)
	rts.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	rts.Equal([]string{kept, "https://a/1.jpg"}, created.Listing.Images)

	w = rts.send(http.MethodGet, path, nil, "", nil)
	rts.Equal(http.StatusNotFound, w.Code, "submitted draft is closed")

	edit := rts.openIntake(map[string]string{
		"listing": created.Listing.ID.String(),
	})
	rts.Equal([]string{}, edit.Intake.Images, "remote URLs are not drafts")
	rts.Equal(kept+", https://a/1.jpg", edit.Images)
}

func (rts *RESTTestSuite) TestIntakeRejectsTooManyFiles() {
	rts.login()
	in := rts.openIntake(nil)
	files := make([]part, 11)
	for i := range files {
		files[i] = part{fmt.Sprintf("%d.png", i), "image/png", pngBytes}
	}
	body, ct := multipartBody(nil, files...)
	out := &outcomeResp{}
	w := rts.send(http.MethodPost,
		"/admin/intakes/"+in.Intake.ID+"/files", body, ct, out,
	)
	rts.Equal(http.StatusBadRequest, w.Code)
	rts.Equal([]model.Notice{model.Failure(
		"Too many files", "Please select no more than 10 images at once",
	)}, out.Notices)
	rts.Equal(0, rts.Images.Puts())

	body, ct = multipartBody(nil, part{"notes.txt", "text/plain", []byte("x")})
	w = rts.send(http.MethodPost,
		"/admin/intakes/"+in.Intake.ID+"/files", body, ct, out,
	)
	rts.Equal(http.StatusBadRequest, w.Code)
	rts.Equal("Invalid files", out.Notices[0].Title)
}

func (rts *RESTTestSuite) TestIntakeClearAndClose() {
	rts.login()
	in := rts.openIntake(nil)
	path := "/admin/intakes/" + in.Intake.ID
	body, ct := multipartBody(nil, part{"a.png", "image/png", pngBytes})
	w := rts.send(http.MethodPost, path+"/files", body, ct, nil)
	rts.Require().Equal(http.StatusOK, w.Code)

	out := &outcomeResp{}
	w = rts.send(http.MethodDelete, path+"/images", nil, "", out)
	rts.Equal(http.StatusOK, w.Code)
	rts.Empty(out.Images)
	rts.Equal("All images cleared", out.Notices[0].Title)

	closed := &struct{ Closed bool }{}
	rts.send(http.MethodDelete, path, nil, "", closed)
	rts.True(closed.Closed)
	rts.send(http.MethodDelete, path, nil, "", closed)
	rts.False(closed.Closed)
}

func (rts *RESTTestSuite) TestImages() {
	rts.login()
	b := &bytes.Buffer{}
	mw := multipart.NewWriter(b)
	fw, _ := mw.CreateFormFile("file", "ae1.JPG")
	_, _ = fw.Write([]byte("\xff\xd8\xff\xe0"))
	_ = mw.WriteField("bucket", "thumbs")
	_ = mw.Close()
	up := &struct{ URL string }{}
	w := rts.send(http.MethodPost, "/admin/images", b, mw.FormDataContentType(), up)
	rts.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	rts.True(strings.HasPrefix(up.URL, "https://store.test/thumbs/uploads/"), up.URL)
	rts.True(strings.HasSuffix(up.URL, ".jpg"), up.URL)

	del := &struct{ Deleted bool }{}
	q := "?" + url.Values{"url": {up.URL}, "bucket": {"thumbs"}}.Encode()
	w = rts.send(http.MethodDelete, "/admin/images"+q, nil, "", del)
	rts.Equal(http.StatusOK, w.Code)
	rts.True(del.Deleted)
	rts.send(http.MethodDelete, "/admin/images"+q, nil, "", del)
	rts.False(del.Deleted)

	w = rts.send(http.MethodDelete, "/admin/images", nil, "", nil)
	rts.Equal(http.StatusBadRequest, w.Code, "url is required")
}

func (rts *RESTTestSuite) TestMetrics() {
	rts.send(http.MethodGet, "/status", nil, "", nil)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	rts.Gin.ServeHTTP(w, req)
	rts.Equal(http.StatusOK, w.Code)
	rts.Contains(w.Body.String(), `path="/api/fcweb/v1/status"`)
}

func (rts *RESTTestSuite) TestConditions() {
	res := &struct{ Conditions []string }{}
	w := rts.send(http.MethodGet, "/conditions", nil, "", res)
	rts.Equal(http.StatusOK, w.Code)
	rts.Equal(model.Conditions, res.Conditions)
}

func (rts *RESTTestSuite) TestBodyLimit() {
	rts.login()
	big := append(append([]byte{}, pngBytes...), make([]byte, 70000)...)
	b := &bytes.Buffer{}
	mw := multipart.NewWriter(b)
	fw, _ := mw.CreateFormFile("file", "big.png")
	_, _ = fw.Write(big)
	_ = mw.Close()
	res := &struct{ Detail string }{}
	w := rts.send(http.MethodPost, "/admin/images", b, mw.FormDataContentType(), res)
	rts.Equal(http.StatusRequestEntityTooLarge, w.Code)
	rts.Equal("request body is larger than 65536 bytes", res.Detail)
	rts.Zero(rts.Images.Puts(), "no upload for a rejected body")

	in := rts.openIntake(nil)
	body, ct := multipartBody(nil, part{"big.png", "image/png", big})
	w = rts.send(http.MethodPost, "/admin/intakes/"+in.Intake.ID+"/files", body, ct, nil)
	rts.Equal(http.StatusRequestEntityTooLarge, w.Code)
}

func (rts *RESTTestSuite) TestBodyLimitWithoutLength() {
	e := gin.New(gin.BodyLimit(16))
	e.POST("/echo", func(c *gingonic.Context) {
		data, err := io.ReadAll(c.Request.Body)
		if err != nil {
			serdser.SerErr(c, serdser.FormErr(err))
			return
		}
		c.String(http.StatusOK, string(data))
	})
	send := func(body string) *httptest.ResponseRecorder {
		// an io.Reader which is not a known buffer hides the length
		req := httptest.NewRequest(http.MethodPost, "/echo",
			io.MultiReader(strings.NewReader(body)),
		)
		w := httptest.NewRecorder()
		e.ServeHTTP(w, req)
		return w
	}
	w := send("short")
	rts.Equal(http.StatusOK, w.Code)
	rts.Equal("short", w.Body.String())
	w = send(strings.Repeat("x", 17))
	rts.Equal(http.StatusRequestEntityTooLarge, w.Code)
}
