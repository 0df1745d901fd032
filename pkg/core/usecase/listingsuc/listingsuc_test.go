// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package listingsuc_test

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/furucamera/internal/test/fakes"
	"github.com/momeni/furucamera/pkg/core/cerr"
	"github.com/momeni/furucamera/pkg/core/model"
	"github.com/momeni/furucamera/pkg/core/usecase/listingsuc"
	"github.com/stretchr/testify/suite"
)

type ListingsUseCaseTestSuite struct {
	suite.Suite

	Ctx      context.Context
	Pool     *fakes.Pool
	Listings *fakes.Listings
	Images   *fakes.ImageStore
	Fallback *fakes.FallbackStore
	UC       *listingsuc.UseCase
}

func TestListingsUseCaseTestSuite(t *testing.T) {
	suite.Run(t, &ListingsUseCaseTestSuite{Ctx: context.Background()})
}

var fixedNow = time.UnixMilli(1718000000123)

func (luts *ListingsUseCaseTestSuite) SetupTest() {
	luts.Pool = &fakes.Pool{}
	luts.Listings = fakes.NewListings()
	luts.Images = fakes.NewImageStore("https://store.test")
	luts.Fallback = &fakes.FallbackStore{}
	uc, err := listingsuc.New(
		luts.Pool, luts.Listings, luts.Images,
		listingsuc.WithFallbackStore(luts.Fallback),
		listingsuc.WithClock(func() time.Time { return fixedNow }),
	)
	luts.Require().NoError(err)
	luts.UC = uc
}

func fm2() model.ListingFields {
	return model.ListingFields{
		Title:     "Nikon FM2",
		Price:     1650,
		Images:    []string{"https://a/1.jpg"},
		Condition: "Very Good",
		Year:      "1982",
		Brand:     "Nikon",
	}
}

func (luts *ListingsUseCaseTestSuite) TestCreateThenListAll() {
	lf := fm2()
	l, err := luts.UC.Create(luts.Ctx, lf)
	luts.Require().NoError(err)
	luts.NotEqual(uuid.Nil, l.ID)
	luts.NotNil(l.CreatedAt)

	ls, err := luts.UC.ListAll(luts.Ctx)
	luts.Require().NoError(err)
	luts.Require().Len(ls, 1)
	luts.Equal(lf, ls[0].ListingFields)
	luts.Equal(l.ID, ls[0].ID)
}

func (luts *ListingsUseCaseTestSuite) TestCreateNilImages() {
	lf := fm2()
	lf.Images = nil
	l, err := luts.UC.Create(luts.Ctx, lf)
	luts.Require().NoError(err)
	luts.Equal([]string{}, l.Images)
}

func (luts *ListingsUseCaseTestSuite) TestNegativePriceSkipsBackend() {
	lf := fm2()
	lf.Price = -10
	l, err := luts.UC.Create(luts.Ctx, lf)
	luts.Nil(l)
	luts.Equal(http.StatusBadRequest, cerr.StatusCode(err))
	luts.ErrorIs(err, model.ErrNegativePrice)

	neg := -1.0
	l, err = luts.UC.Update(luts.Ctx, uuid.New(), model.ListingPatch{Price: &neg})
	luts.Nil(l)
	luts.Equal(http.StatusBadRequest, cerr.StatusCode(err))
	luts.Zero(luts.Listings.Calls(), "no query may be run")
}

func (luts *ListingsUseCaseTestSuite) TestUpdatePrice() {
	l, err := luts.UC.Create(luts.Ctx, fm2())
	luts.Require().NoError(err)
	p := 1500.0
	u, err := luts.UC.Update(luts.Ctx, l.ID, model.ListingPatch{Price: &p})
	luts.Require().NoError(err)
	luts.Equal(1500.0, u.Price)
	luts.True(u.UpdatedAt.After(*l.UpdatedAt))

	ls, err := luts.UC.ListAll(luts.Ctx)
	luts.Require().NoError(err)
	luts.Equal(1500.0, model.FindListing(ls, l.ID).Price)

	u, err = luts.UC.Update(luts.Ctx, uuid.New(), model.ListingPatch{Price: &p})
	luts.Nil(u)
	luts.Equal(http.StatusNotFound, cerr.StatusCode(err))
}

func (luts *ListingsUseCaseTestSuite) TestDeleteIsIdempotent() {
	l, err := luts.UC.Create(luts.Ctx, fm2())
	luts.Require().NoError(err)
	ok, err := luts.UC.Delete(luts.Ctx, l.ID)
	luts.Require().NoError(err)
	luts.True(ok)
	ok, err = luts.UC.Delete(luts.Ctx, l.ID)
	luts.Require().NoError(err)
	luts.True(ok, "absent listing deletion must succeed")

	ls, err := luts.UC.ListAll(luts.Ctx)
	luts.Require().NoError(err)
	luts.Nil(model.FindListing(ls, l.ID))
}

func (luts *ListingsUseCaseTestSuite) TestFailSoft() {
	luts.Listings.Fail(fakes.ErrOffline)
	ls, err := luts.UC.ListAll(luts.Ctx)
	luts.NotNil(ls)
	luts.Empty(ls)
	luts.ErrorIs(err, fakes.ErrOffline)
	luts.Equal(http.StatusServiceUnavailable, cerr.StatusCode(err))

	l, err := luts.UC.Create(luts.Ctx, fm2())
	luts.Nil(l)
	luts.Error(err)

	ok, err := luts.UC.Delete(luts.Ctx, uuid.New())
	luts.False(ok)
	luts.Error(err)
}

func (luts *ListingsUseCaseTestSuite) TestPoolFailureIsUnavailable() {
	luts.Pool.Fail(fakes.ErrOffline)
	_, err := luts.UC.ListAll(luts.Ctx)
	luts.Equal(http.StatusServiceUnavailable, cerr.StatusCode(err))
	luts.False(luts.UC.Status(luts.Ctx).Connected)
}

var uploadKeyRE = regexp.MustCompile(
	`^https://store\.test/camera-images/uploads/1718000000123-[0-9a-z]+\.(\w+)$`,
)

func (luts *ListingsUseCaseTestSuite) TestUploadImage() {
	for _, tc := range []struct {
		name, file, ctype, ext string
	}{
		{"lower", "ae1.jpg", "image/jpeg", "jpg"},
		{"upper", "FM2.JPEG", "image/jpeg", "jpeg"},
		{"by type", "scan", "image/png", "png"},
		{"unknown", "blob", "application/x-unknown-fc", "bin"},
	} {
		luts.Run(tc.name, func() {
			f := &fakes.File{FileName: tc.file, Type: tc.ctype, Data: []byte("x")}
			u, err := luts.UC.UploadImage(luts.Ctx, f)
			luts.Require().NoError(err)
			m := uploadKeyRE.FindStringSubmatch(u)
			luts.Require().NotNil(m, "unexpected url: %s", u)
			luts.Equal(tc.ext, m[1])
			key, ok := listingsuc.ImageKey(u)
			luts.Require().True(ok)
			obj, ok := luts.Images.Object(listingsuc.DefaultBucket, key)
			luts.Require().True(ok)
			luts.Equal("max-age=3600", obj.CacheControl)
			luts.Equal(tc.ctype, obj.ContentType)
			luts.Equal([]byte("x"), obj.Data)
		})
	}
}

func (luts *ListingsUseCaseTestSuite) TestUploadImageFailure() {
	luts.Images.Fail(fakes.ErrOffline)
	u, err := luts.UC.UploadImage(luts.Ctx, fakes.Image("a.png"))
	luts.Empty(u)
	luts.Equal(http.StatusServiceUnavailable, cerr.StatusCode(err))

	luts.Images.Fail(nil)
	f := fakes.Image("b.png")
	f.Unreadable = true
	u, err = luts.UC.UploadImage(luts.Ctx, f)
	luts.Empty(u)
	luts.ErrorIs(err, fakes.ErrUnreadable)
}

func (luts *ListingsUseCaseTestSuite) TestUploadToBucket() {
	u, err := luts.UC.UploadImageTo(luts.Ctx, "thumbs", fakes.Image("a.png"))
	luts.Require().NoError(err)
	luts.Contains(u, "https://store.test/thumbs/uploads/")
	ok, err := luts.UC.DeleteImageFrom(luts.Ctx, "thumbs", u)
	luts.Require().NoError(err)
	luts.True(ok)
	luts.Zero(luts.Images.Len())
}

func (luts *ListingsUseCaseTestSuite) TestDeleteImage() {
	luts.Images.Add(listingsuc.DefaultBucket, "uploads/1-abc.jpg", []byte("x"))
	ok, err := luts.UC.DeleteImage(luts.Ctx, "https://cdn.test/any/path/1-abc.jpg?v=2")
	luts.Require().NoError(err)
	luts.True(ok)

	ok, err = luts.UC.DeleteImage(luts.Ctx, "https://cdn.test/any/path/1-abc.jpg")
	luts.Require().NoError(err)
	luts.False(ok, "missing object is a silent no-op")

	ok, err = luts.UC.DeleteImage(luts.Ctx, "data:image/png;base64,AA==")
	luts.Require().NoError(err)
	luts.False(ok)
	luts.Equal(1, luts.Images.Removes())
}

func (luts *ListingsUseCaseTestSuite) TestImageKey() {
	for _, tc := range []struct {
		ref, key string
		ok       bool
	}{
		{"https://x/s/camera-images/uploads/1-a.png", "uploads/1-a.png", true},
		{"uploads/2-b.jpg", "uploads/2-b.jpg", true},
		{"plain.jpg", "uploads/plain.jpg", true},
		{"https://x/dir/", "", false},
		{"", "", false},
		{"data:image/png;base64,AA==", "", false},
	} {
		key, ok := listingsuc.ImageKey(tc.ref)
		luts.Equal(tc.ok, ok, tc.ref)
		luts.Equal(tc.key, key, tc.ref)
	}
}

func (luts *ListingsUseCaseTestSuite) TestBrowseBackend() {
	_, err := luts.UC.Create(luts.Ctx, fm2())
	luts.Require().NoError(err)
	ls, src, err := luts.UC.Browse(luts.Ctx)
	luts.Require().NoError(err)
	luts.Equal(listingsuc.SourceBackend, src)
	luts.Len(ls, 1)
	luts.Zero(luts.Fallback.Saves())
}

func (luts *ListingsUseCaseTestSuite) TestBrowseSeedsFallback() {
	luts.Listings.Fail(fakes.ErrOffline)
	ls, src, err := luts.UC.Browse(luts.Ctx)
	luts.Require().NoError(err)
	luts.Equal(listingsuc.SourceFallback, src)
	luts.Require().Len(ls, 2)
	luts.Equal("Canon AE-1 Program", ls[0].Title)
	luts.Equal(1, luts.Fallback.Saves())

	custom := model.Samples()[:1]
	custom[0].Title = "Stored"
	luts.Require().NoError(luts.Fallback.Save(luts.Ctx, custom))
	ls, _, err = luts.UC.Browse(luts.Ctx)
	luts.Require().NoError(err)
	luts.Require().Len(ls, 1)
	luts.Equal("Stored", ls[0].Title, "stored listings are not reseeded")
}

func (luts *ListingsUseCaseTestSuite) TestBrowseWithoutFallback() {
	uc, err := listingsuc.New(luts.Pool, luts.Listings, luts.Images)
	luts.Require().NoError(err)
	luts.Listings.Fail(fakes.ErrOffline)
	ls, src, err := uc.Browse(luts.Ctx)
	luts.Error(err)
	luts.Equal(listingsuc.SourceBackend, src)
	luts.Empty(ls)
}

func (luts *ListingsUseCaseTestSuite) TestDetailAndRelated() {
	mk := func(title, brand string, price float64) *model.Listing {
		lf := fm2()
		lf.Title, lf.Brand, lf.Price = title, brand, price
		l, err := luts.UC.Create(luts.Ctx, lf)
		luts.Require().NoError(err)
		return l
	}
	cur := mk("FM2", "Nikon", 1000)
	mk("F3", "Nikon", 3000)
	mk("AE-1", "Canon", 1200)
	mk("K1000", "Pentax", 5000)

	l, rel, err := luts.UC.Detail(luts.Ctx, cur.ID)
	luts.Require().NoError(err)
	luts.Equal(cur.ID, l.ID)
	luts.Require().Len(rel, 2)
	// newest first, as browsed
	luts.Equal("AE-1", rel[0].Title)
	luts.Equal("F3", rel[1].Title)

	_, _, err = luts.UC.Detail(luts.Ctx, uuid.New())
	luts.Equal(http.StatusNotFound, cerr.StatusCode(err))
}

func (luts *ListingsUseCaseTestSuite) TestDetailFromFallback() {
	luts.Require().NoError(luts.Fallback.Save(luts.Ctx, model.Samples()))
	_, err := luts.UC.Create(luts.Ctx, fm2())
	luts.Require().NoError(err)
	l, rel, err := luts.UC.Detail(luts.Ctx, model.SampleCanonID)
	luts.Require().NoError(err)
	luts.Equal("Canon AE-1 Program", l.Title)
	luts.Empty(rel, "FM2 is neither a Canon nor within 30% of the price")
}

func (luts *ListingsUseCaseTestSuite) TestDetailKeepsEmptyFallback() {
	_, err := luts.UC.Create(luts.Ctx, fm2())
	luts.Require().NoError(err)
	_, _, err = luts.UC.Detail(luts.Ctx, model.SampleCanonID)
	luts.Equal(http.StatusNotFound, cerr.StatusCode(err))
	_, err = luts.UC.ContactLink(luts.Ctx, model.SampleCanonID)
	luts.Equal(http.StatusNotFound, cerr.StatusCode(err))
	luts.Zero(luts.Fallback.Saves(), "samples are seeded only if the backend fails")

	luts.Fallback.Fail(errors.New("file is locked"))
	_, _, err = luts.UC.Detail(luts.Ctx, model.SampleCanonID)
	luts.Equal(http.StatusNotFound, cerr.StatusCode(err))
}

func (luts *ListingsUseCaseTestSuite) TestContactLink() {
	l, err := luts.UC.Create(luts.Ctx, fm2())
	luts.Require().NoError(err)
	link, err := luts.UC.ContactLink(luts.Ctx, l.ID)
	luts.Require().NoError(err)
	luts.Equal(model.ContactLink(model.DefaultContactPhone, l), link)
}

func (luts *ListingsUseCaseTestSuite) TestStatus() {
	s := luts.UC.Status(luts.Ctx)
	luts.True(s.Connected)
	luts.Equal("connected", s.State())
	_, err := luts.UC.Create(luts.Ctx, fm2())
	luts.Require().NoError(err)
	luts.Equal(int64(1), luts.UC.Status(luts.Ctx).Listings)

	luts.Listings.Fail(fakes.ErrOffline)
	s = luts.UC.Status(luts.Ctx)
	luts.False(s.Connected)
	luts.Equal("offline", s.State())
}

func (luts *ListingsUseCaseTestSuite) TestOptions() {
	_, err := listingsuc.New(luts.Pool, luts.Listings, luts.Images,
		listingsuc.WithBucket("a"), listingsuc.WithBucket("b"),
	)
	luts.Error(err, "duplicate option")
	_, err = listingsuc.New(luts.Pool, luts.Listings, luts.Images,
		listingsuc.WithCacheTTL(time.Millisecond),
	)
	luts.Error(err)
	_, err = listingsuc.New(luts.Pool, luts.Listings, luts.Images,
		listingsuc.WithContactPhone("+971"),
	)
	luts.Error(err)
	uc, err := listingsuc.New(luts.Pool, luts.Listings, luts.Images,
		listingsuc.WithBucket("photos"),
		listingsuc.WithCacheTTL(90*time.Second),
		listingsuc.WithExtensionLookup(func(string) string { return "webp" }),
	)
	luts.Require().NoError(err)
	u, err := uc.UploadImage(luts.Ctx, fakes.Image("noext"))
	luts.Require().NoError(err)
	luts.Regexp(`/photos/uploads/\d+-[0-9a-z]+\.webp$`, u)
	key, _ := listingsuc.ImageKey(u)
	obj, ok := luts.Images.Object("photos", key)
	luts.Require().True(ok)
	luts.Equal("max-age=90", obj.CacheControl)
}
