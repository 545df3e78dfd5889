package ig_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"

	"github.com/icongrab/icongrab/pkg/ig"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Font sources", func() {
	var font ig.FontDescriptor

	BeforeEach(func() {
		font = ig.FontDescriptor{
			Identifier:  "test-font",
			DisplayName: "Test Font",
			StyleLabel:  "Outlined",
		}
	})

	Describe("Plain codepoints source", func() {
		var source *ig.CodepointsSource

		BeforeEach(func() {
			source = ig.NewCodepointsSource("test", nil)
		})

		It("parses one glyph per line", func() {
			payload := "10k e951\n10mp e952\n360 e95b\nac_unit e948\nbolt e94b\n"
			records, err := source.Normalize([]byte(payload), font)
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(Equal([]ig.GlyphRecord{
				{Name: "10k", Codepoint: "e951"},
				{Name: "10mp", Codepoint: "e952"},
				{Name: "360", Codepoint: "e95b"},
				{Name: "ac_unit", Codepoint: "e948"},
				{Name: "bolt", Codepoint: "e94b"},
			}))
		})

		It("skips comments, blanks, and malformed lines", func() {
			payload := "# header\n\nbolt e94b\nmalformed\ntoo many tokens here\n"
			records, err := source.Normalize([]byte(payload), font)
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(1))
			Expect(records[0].Name).To(Equal("bolt"))
		})

		It("lowercases hex codepoints", func() {
			records, err := source.Normalize([]byte("bolt E94B\n"), font)
			Expect(err).NotTo(HaveOccurred())
			Expect(records[0].Codepoint).To(Equal("e94b"))
		})
	})

	Describe("Structured metadata source", func() {
		var source *ig.MetadataSource

		BeforeEach(func() {
			source = ig.NewMetadataSource("test", nil)
		})

		It("keeps valid records and drops deprecated ones", func() {
			payload := `[
				{"name": "account", "codepoint": "F0004", "deprecated": false},
				{"name": "old-icon", "codepoint": "F0005", "deprecated": true},
				{"name": "bell", "codepoint": "F009A", "deprecated": false}
			]`
			records, err := source.Normalize([]byte(payload), font)
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(Equal([]ig.GlyphRecord{
				{Name: "account", Codepoint: "f0004"},
				{Name: "bell", Codepoint: "f009a"},
			}))
		})

		It("drops records with missing or non-string fields", func() {
			payload := `[
				{"name": 42, "codepoint": "F0004"},
				{"name": "no-codepoint"},
				{"name": "ok", "codepoint": "F0006"}
			]`
			records, err := source.Normalize([]byte(payload), font)
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(1))
			Expect(records[0].Name).To(Equal("ok"))
		})

		It("fails when zero usable records remain", func() {
			payload := `[{"name": "gone", "codepoint": "F0001", "deprecated": true}]`
			_, err := source.Normalize([]byte(payload), font)
			var normErr *ig.NormalizeError
			Expect(errors.As(err, &normErr)).To(BeTrue())
		})

		It("fails on a payload that is not a JSON array", func() {
			_, err := source.Normalize([]byte(`{"name": "x"}`), font)
			var normErr *ig.NormalizeError
			Expect(errors.As(err, &normErr)).To(BeTrue())
		})
	})

	Describe("Stylesheet source", func() {
		var source *ig.StylesheetSource

		BeforeEach(func() {
			source = ig.NewStylesheetSource("test", "fa", nil)
		})

		It("extracts glyph rules in both spaced and minified form", func() {
			payload := `
.fa-user:before { content: '\f007'; }
.fa-bell::before{content:"\F0F3"}
.other-rule { color: red; }
`
			records, err := source.Normalize([]byte(payload), font)
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(Equal([]ig.GlyphRecord{
				{Name: "user", Codepoint: "f007"},
				{Name: "bell", Codepoint: "f0f3"},
			}))
		})

		It("ignores rules with a different class prefix", func() {
			payload := `.bi-alarm:before { content: '\f102'; } .fa-user:before { content: '\f007'; }`
			records, err := source.Normalize([]byte(payload), font)
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(1))
			Expect(records[0].Name).To(Equal("user"))
		})

		It("fails when the stylesheet contains no glyph rules", func() {
			_, err := source.Normalize([]byte("body { margin: 0; }"), font)
			var normErr *ig.NormalizeError
			Expect(errors.As(err, &normErr)).To(BeTrue())
		})
	})

	Describe("Fetching metadata", func() {
		It("returns the payload on success", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.Header.Get("User-Agent")).NotTo(BeEmpty())
				_, _ = w.Write([]byte("bolt e94b\n"))
			}))
			defer server.Close()

			font.MetadataURL = server.URL
			source := ig.NewCodepointsSource("test", nil)
			raw, err := source.Fetch(context.Background(), font)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(raw)).To(Equal("bolt e94b\n"))
		})

		It("reports a download failure on a non-200 status", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			}))
			defer server.Close()

			font.MetadataURL = server.URL
			source := ig.NewMetadataSource("test", nil)
			_, err := source.Fetch(context.Background(), font)
			var downloadErr *ig.DownloadError
			Expect(errors.As(err, &downloadErr)).To(BeTrue())
		})

		It("reports a download failure when the upstream is unreachable", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
			server.Close() // connection refused from here on

			font.MetadataURL = server.URL
			source := ig.NewStylesheetSource("test", "fa", nil)
			_, err := source.Fetch(context.Background(), font)
			var downloadErr *ig.DownloadError
			Expect(errors.As(err, &downloadErr)).To(BeTrue())
		})
	})
})
