package site

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSiteHandler(t *testing.T) {
	Convey("Given the dashboard site is registered", t, func() {
		ctx := context.Background()
		mux := http.NewServeMux()
		Register(ctx, mux)

		Convey("Then the root serves the dashboard page", func() {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/html")
			So(w.Body.String(), ShouldContainSubstring, "QuakeScope")
		})

		Convey("And the page wires the filter widgets", func() {
			req := httptest.NewRequest(http.MethodGet, "/index.html", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			// FileServer redirects the canonical index path to /.
			So(w.Code, ShouldBeIn, []int{http.StatusOK, http.StatusMovedPermanently})
		})

		Convey("And the app script is served", func() {
			req := httptest.NewRequest(http.MethodGet, "/app.js", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "/v1/dashboard")
			So(w.Body.String(), ShouldContainSubstring, "/v1/quakes")
			So(w.Body.String(), ShouldContainSubstring, "/v1/meta")
		})

		Convey("And the stylesheet is served", func() {
			req := httptest.NewRequest(http.MethodGet, "/styles.css", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/css")
		})

		Convey("And an unknown asset is a 404", func() {
			req := httptest.NewRequest(http.MethodGet, "/no-such-asset.js", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestSiteHandlerWithNilMux(t *testing.T) {
	Convey("Given a nil mux", t, func() {
		Convey("When registering the site handler", func() {
			Convey("Then it should panic", func() {
				So(func() {
					Register(context.Background(), nil)
				}, ShouldPanic)
			})
		})
	})
}

func TestEmbeddedFS(t *testing.T) {
	Convey("Given the embedded asset filesystem", t, func() {
		fsys := FS()

		Convey("Then the dashboard page is present", func() {
			f, err := fsys.Open("/index.html")
			So(err, ShouldBeNil)
			So(f.Close(), ShouldBeNil)
		})

		Convey("And the assets are present", func() {
			for _, name := range []string{"/app.js", "/styles.css"} {
				f, err := fsys.Open(name)
				So(err, ShouldBeNil)
				So(f.Close(), ShouldBeNil)
			}
		})
	})
}
