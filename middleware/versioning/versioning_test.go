// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

//go:build !integration

package versioning_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"rivaas.dev/apiversion"
	apierrors "rivaas.dev/apiversion/errors"
	"rivaas.dev/apiversion/matcher"
	"rivaas.dev/apiversion/middleware/requestid"
	"rivaas.dev/apiversion/middleware/versioning"
	"rivaas.dev/apiversion/model"
	"rivaas.dev/apiversion/reader"
	"rivaas.dev/apiversion/sunset"
	"rivaas.dev/apiversion/version"
)

var (
	v1 = version.New(1, 0)
	v2 = version.New(2, 0)
)

// echoVersion writes the handler name and the version it was selected for.
func echoVersion(name string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v, ok := versioning.VersionFromContext(r.Context())
		Expect(ok).To(BeTrue())
		_, _ = w.Write([]byte(name + " " + v.String()))
	})
}

func ordersEndpoints() []versioning.Endpoint {
	return []versioning.Endpoint{
		{
			Model:       model.MustNew(model.Named("orders"), model.Deprecates(v1)),
			Specificity: matcher.Explicit,
			Handler:     echoVersion("orders-v1"),
		},
		{
			Model:       model.MustNew(model.Named("orders"), model.Supports(v2)),
			Specificity: matcher.Explicit,
			Handler:     echoVersion("orders-v2"),
		},
	}
}

func serve(h http.Handler, target string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	return w
}

func problem(w *httptest.ResponseRecorder) map[string]any {
	Expect(w.Header().Get("Content-Type")).To(Equal("application/problem+json; charset=utf-8"))

	var body map[string]any
	Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(Succeed())

	return body
}

var _ = Describe("Dispatcher", func() {
	var (
		engine *apiversion.Engine
		logs   *bytes.Buffer
		logger *slog.Logger
	)

	BeforeEach(func() {
		engine = apiversion.MustNew(apiversion.WithReporting(false))
		logs = &bytes.Buffer{}
		logger = slog.New(slog.NewJSONHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	})

	Describe("construction", func() {
		It("rejects invalid arguments", func() {
			_, err := versioning.Dispatch(nil, ordersEndpoints())
			Expect(err).To(MatchError(versioning.ErrNilEngine))

			_, err = versioning.Dispatch(engine, nil)
			Expect(err).To(MatchError(versioning.ErrNoEndpoints))

			_, err = versioning.Dispatch(engine, []versioning.Endpoint{{Model: model.MustNew(model.Supports(v1))}})
			Expect(err).To(MatchError(versioning.ErrNilHandler))

			Expect(func() { versioning.New(nil, nil) }).To(Panic())
		})
	})

	Describe("routing by version", func() {
		var h http.Handler

		BeforeEach(func() {
			h = versioning.MustDispatch(engine, ordersEndpoints(), versioning.WithLogger(logger))
		})

		DescribeTable("selects the implementing endpoint",
			func(target, body string) {
				w := serve(h, target)
				Expect(w.Code).To(Equal(http.StatusOK))
				Expect(w.Body.String()).To(Equal(body))
			},
			Entry("deprecated version", "/orders?api-version=1.0", "orders-v1 1.0"),
			Entry("supported version", "/orders?api-version=2.0", "orders-v2 2.0"),
			Entry("bare major", "/orders?api-version=2", "orders-v2 2"),
		)

		It("reports versions and deprecation", func() {
			w := serve(h, "/orders?api-version=1.0")
			Expect(w.Header().Get(apiversion.DefaultSupportedHeader)).To(Equal("2.0"))
			Expect(w.Header().Get(apiversion.DefaultDeprecatedHeader)).To(Equal("1.0"))
			Expect(w.Header().Get("Deprecation")).To(Equal("true"))
		})

		It("is safe for concurrent requests", func() {
			var wg sync.WaitGroup
			for i := range 32 {
				wg.Add(1)
				go func() {
					defer GinkgoRecover()
					defer wg.Done()
					target, want := "/orders?api-version=1.0", "orders-v1 1.0"
					if i%2 == 0 {
						target, want = "/orders?api-version=2.0", "orders-v2 2.0"
					}
					Expect(serve(h, target).Body.String()).To(Equal(want))
				}()
			}
			wg.Wait()
		})
	})

	Describe("rejections", func() {
		var h http.Handler

		BeforeEach(func() {
			h = requestid.New(requestid.WithGenerator(func() string { return "req-1" }))(
				versioning.MustDispatch(engine, ordersEndpoints(), versioning.WithLogger(logger)),
			)
		})

		DescribeTable("answers client errors with 400 problems",
			func(target, code string) {
				w := serve(h, target)
				Expect(w.Code).To(Equal(http.StatusBadRequest))

				body := problem(w)
				Expect(body["code"]).To(Equal(code))
				Expect(body["status"]).To(BeNumerically("==", http.StatusBadRequest))
				Expect(body["instance"]).To(Equal("/orders"))
				Expect(body["request_id"]).To(Equal("req-1"))
				Expect(body["error_id"]).To(HavePrefix("err-"))
				Expect(w.Header().Get(apiversion.DefaultSupportedHeader)).To(Equal("2.0"))
			},
			Entry("unspecified", "/orders", apierrors.CodeUnspecified),
			Entry("malformed", "/orders?api-version=1.x", apierrors.CodeInvalid),
			Entry("ambiguous", "/orders?api-version=1.0&api-version=2.0", apierrors.CodeAmbiguous),
			Entry("unsupported", "/orders?api-version=3.0", apierrors.CodeUnsupported),
		)

		It("lists the known versions for unsupported requests", func() {
			body := problem(serve(h, "/orders?api-version=3.0"))
			Expect(body["errors"]).To(HaveKeyWithValue("requested", ConsistOf("3.0")))
		})

		It("logs client errors at debug with the request ID", func() {
			serve(h, "/orders?api-version=3.0")
			Expect(logs.String()).To(ContainSubstring(`"level":"DEBUG"`))
			Expect(logs.String()).To(ContainSubstring(`"request_id":"req-1"`))
		})

		It("treats overlapping endpoints as a server error", func() {
			overlapping := append(ordersEndpoints(), versioning.Endpoint{
				Model:       model.MustNew(model.Named("orders"), model.Supports(v2)),
				Specificity: matcher.Explicit,
				Handler:     echoVersion("orders-v2-copy"),
			})
			d := versioning.MustDispatch(engine, overlapping, versioning.WithLogger(logger))

			w := serve(d, "/orders?api-version=2.0")
			Expect(w.Code).To(Equal(http.StatusInternalServerError))
			Expect(problem(w)["code"]).To(Equal(apierrors.CodeAmbiguousMatch))
			Expect(logs.String()).To(ContainSubstring(`"level":"ERROR"`))
		})

		It("uses the configured formatter", func() {
			d := versioning.MustDispatch(engine, ordersEndpoints(), versioning.WithFormatter(apierrors.NewSimple()))

			w := serve(d, "/orders?api-version=9.0")
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(w.Body.String()).To(ContainSubstring(`"code":"unsupported-api-version"`))
		})
	})

	Describe("sunset enforcement", func() {
		It("answers 410 after the sunset date", func() {
			b := sunset.NewBuilder()
			policy, err := sunset.NewPolicy(sunset.EffectiveAt(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
			Expect(err).NotTo(HaveOccurred())
			Expect(b.Add(sunset.Key{Name: "orders", Version: v1}, policy)).To(Succeed())

			enforcing := apiversion.MustNew(
				apiversion.WithSunsetPolicies(b.Build()),
				apiversion.WithSunsetEnforcement(),
				apiversion.WithClock(func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }),
			)
			h := versioning.MustDispatch(enforcing, ordersEndpoints())

			w := serve(h, "/orders?api-version=1.0")
			Expect(w.Code).To(Equal(http.StatusGone))
			Expect(problem(w)["code"]).To(Equal(apierrors.CodeSunset))
			Expect(w.Header().Get("Sunset")).To(Equal("Wed, 01 Jan 2025 00:00:00 GMT"))

			Expect(serve(h, "/orders?api-version=2.0").Code).To(Equal(http.StatusOK))
		})
	})

	Describe("neutral endpoints", func() {
		It("serves any version and unversioned requests", func() {
			h := versioning.MustDispatch(engine, []versioning.Endpoint{{
				Model:   model.MustNew(model.VersionNeutral()),
				Handler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) }),
			}})

			Expect(serve(h, "/health").Code).To(Equal(http.StatusNoContent))
			Expect(serve(h, "/health?api-version=7.0").Code).To(Equal(http.StatusNoContent))
		})
	})
})

var _ = Describe("Middleware", func() {
	It("reads route values through chi", func() {
		engine := apiversion.MustNew(apiversion.WithReader(reader.RouteParameter("version")))
		ordersV2 := model.MustNew(model.Named("orders"), model.Supports(v2))

		r := chi.NewRouter()
		r.With(versioning.New(engine, ordersV2, versioning.WithChiRouteValues())).
			Get("/api/{version}/orders", echoVersion("orders").ServeHTTP)

		Expect(serve(r, "/api/2.0/orders").Body.String()).To(Equal("orders 2.0"))
		Expect(serve(r, "/api/1.0/orders").Code).To(Equal(http.StatusBadRequest))
	})

	It("reads header carriers and sets Vary", func() {
		engine := apiversion.MustNew(apiversion.WithReader(reader.Header("X-Api-Version")))
		mw := versioning.New(engine, model.MustNew(model.Supports(v1)))
		h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d, ok := versioning.FromContext(r.Context())
			Expect(ok).To(BeTrue())
			Expect(d.Read.Found()).To(BeTrue())
			w.WriteHeader(http.StatusOK)
		}))

		w := serve(h, "/", "X-Api-Version", "1.0")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Values("Vary")).To(ContainElement("X-Api-Version"))
	})

	It("leaves the context empty outside the dispatcher", func() {
		_, ok := versioning.VersionFromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context())
		Expect(ok).To(BeFalse())
	})
})
