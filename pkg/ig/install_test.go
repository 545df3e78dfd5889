package ig_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"

	"github.com/icongrab/icongrab/internal/platform"
	"github.com/icongrab/icongrab/pkg/ig"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// mockPlatform implements platform.Manager against a temp directory and
// records the side effects the provisioner triggers.
type mockPlatform struct {
	fontDir      string
	unsupported  bool
	registerErr  error
	registered   map[string]string
	unregistered []string
	cacheUpdates int
}

func (m *mockPlatform) GetFontPaths() (platform.FontPaths, error) {
	if m.unsupported {
		return platform.FontPaths{}, platform.ErrUnsupported
	}
	return platform.FontPaths{
		SystemDir: filepath.Join(m.fontDir, "system"),
		UserDir:   filepath.Join(m.fontDir, "user"),
	}, nil
}

func (m *mockPlatform) UpdateFontCache() error {
	m.cacheUpdates++
	return nil
}

func (m *mockPlatform) RegisterFont(family, filename string) error {
	if m.registerErr != nil {
		return m.registerErr
	}
	if m.registered == nil {
		m.registered = make(map[string]string)
	}
	m.registered[family] = filename
	return nil
}

func (m *mockPlatform) UnregisterFont(family string) error {
	m.unregistered = append(m.unregistered, family)
	return nil
}

var _ = Describe("Font provisioner", func() {
	var (
		tempDir     string
		server      *httptest.Server
		mock        *mockPlatform
		provisioner *ig.Provisioner
		font        ig.FontDescriptor
		ctx         context.Context
	)

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "provision-test-*")
		Expect(err).NotTo(HaveOccurred())

		mux := http.NewServeMux()
		mux.HandleFunc("/fonts/Sample-Regular.ttf", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("fake ttf content"))
		})
		mux.HandleFunc("/fonts/Sample-Bold.otf", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("fake otf content"))
		})
		server = httptest.NewServer(mux)

		mock = &mockPlatform{fontDir: tempDir}
		provisioner = ig.NewProvisioner(mock, nil)

		font = ig.FontDescriptor{
			Identifier:  "sample",
			DisplayName: "Sample",
			StyleLabel:  "Regular",
			FontFamily:  "Sample Font",
			FontFiles: []ig.FontFile{
				{URL: server.URL + "/fonts/Sample-Regular.ttf", Format: "ttf"},
				{URL: server.URL + "/fonts/Sample-Bold.otf", Format: "otf"},
				{URL: server.URL + "/fonts/Sample-Regular.woff2", Format: "woff2"},
			},
		}

		ctx = context.Background()
	})

	AfterEach(func() {
		server.Close()
		os.RemoveAll(tempDir)
	})

	Describe("Install paths", func() {
		It("maps installable binaries into the user font directory", func() {
			paths := provisioner.InstallPaths(font)
			Expect(paths).To(Equal([]string{
				filepath.Join(tempDir, "user", "Sample-Regular.ttf"),
				filepath.Join(tempDir, "user", "Sample-Bold.otf"),
			}))
		})

		It("decodes percent-escaped filenames", func() {
			escaped := ig.FontDescriptor{
				FontFiles: []ig.FontFile{
					{URL: server.URL + "/fonts/Sample%5Bwght%5D.ttf", Format: "ttf"},
				},
			}
			paths := provisioner.InstallPaths(escaped)
			Expect(paths).To(HaveLen(1))
			Expect(filepath.Base(paths[0])).To(Equal("Sample[wght].ttf"))
		})

		It("is empty when no install directory resolves", func() {
			mock.unsupported = true
			Expect(provisioner.InstallPaths(font)).To(BeEmpty())
		})
	})

	Describe("Installing", func() {
		It("downloads, commits, and reports progress per copied file", func() {
			var progress [][2]int
			installed, err := provisioner.Install(ctx, []ig.FontDescriptor{font}, func(completed, total int) {
				progress = append(progress, [2]int{completed, total})
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(installed).To(BeTrue())
			Expect(progress).To(Equal([][2]int{{1, 2}, {2, 2}}))

			for _, path := range provisioner.InstallPaths(font) {
				_, err := os.Stat(path)
				Expect(err).NotTo(HaveOccurred())
			}
			Expect(provisioner.Installed(font)).To(BeTrue())
			Expect(mock.registered).To(HaveKey("Sample Font"))
			Expect(mock.cacheUpdates).To(Equal(1))
		})

		It("rejects a selection with no installable binaries", func() {
			webOnly := font
			webOnly.FontFiles = []ig.FontFile{{URL: server.URL + "/w.woff2", Format: "woff2"}}
			_, err := provisioner.Install(ctx, []ig.FontDescriptor{webOnly}, nil)
			Expect(errors.Is(err, ig.ErrNoInstallableFonts)).To(BeTrue())
		})

		It("asks for manual installation on an unsupported platform", func() {
			mock.unsupported = true
			installed, err := provisioner.Install(ctx, []ig.FontDescriptor{font}, nil)
			Expect(installed).To(BeFalse())

			var manualErr *ig.ManualInstallError
			Expect(errors.As(err, &manualErr)).To(BeTrue())
			Expect(manualErr.URLs).To(ContainElements(
				font.FontFiles[0].URL,
				font.FontFiles[1].URL,
			))
		})

		It("surfaces registration failures without undoing the install", func() {
			mock.registerErr = errors.New("registry write denied")

			installed, err := provisioner.Install(ctx, []ig.FontDescriptor{font}, nil)
			Expect(installed).To(BeTrue())
			Expect(err).To(MatchError(ContainSubstring("registry write denied")))
			Expect(err.Error()).To(ContainSubstring("Sample Font"))

			Expect(provisioner.Installed(font)).To(BeTrue())
			Expect(mock.cacheUpdates).To(Equal(1))
		})

		It("commits nothing when any download in the batch fails", func() {
			broken := font
			broken.FontFiles = []ig.FontFile{
				{URL: server.URL + "/fonts/Sample-Regular.ttf", Format: "ttf"},
				{URL: server.URL + "/fonts/missing.ttf", Format: "ttf"},
			}

			var progressCalls int
			installed, err := provisioner.Install(ctx, []ig.FontDescriptor{broken}, func(int, int) {
				progressCalls++
			})
			Expect(installed).To(BeFalse())

			var downloadErr *ig.DownloadError
			Expect(errors.As(err, &downloadErr)).To(BeTrue())
			Expect(progressCalls).To(BeZero())

			entries, readErr := os.ReadDir(filepath.Join(tempDir, "user"))
			if readErr == nil {
				Expect(entries).To(BeEmpty())
			}
		})
	})

	Describe("Uninstalling", func() {
		BeforeEach(func() {
			installed, err := provisioner.Install(ctx, []ig.FontDescriptor{font}, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(installed).To(BeTrue())
		})

		It("removes installed files and mirrors the platform step", func() {
			updatesBefore := mock.cacheUpdates
			removed, err := provisioner.Uninstall([]ig.FontDescriptor{font})
			Expect(err).NotTo(HaveOccurred())
			Expect(removed).To(BeTrue())

			Expect(provisioner.Installed(font)).To(BeFalse())
			Expect(mock.unregistered).To(ContainElement("Sample Font"))
			Expect(mock.cacheUpdates).To(Equal(updatesBefore + 1))
		})

		It("reports false when nothing is left to remove", func() {
			removed, err := provisioner.Uninstall([]ig.FontDescriptor{font})
			Expect(err).NotTo(HaveOccurred())
			Expect(removed).To(BeTrue())

			unregisteredBefore := len(mock.unregistered)
			removed, err = provisioner.Uninstall([]ig.FontDescriptor{font})
			Expect(err).NotTo(HaveOccurred())
			Expect(removed).To(BeFalse())
			Expect(mock.unregistered).To(HaveLen(unregisteredBefore))
		})

		It("still counts a partially removed font as installed", func() {
			paths := provisioner.InstallPaths(font)
			Expect(os.Remove(paths[0])).To(Succeed())
			Expect(provisioner.Installed(font)).To(BeTrue())
		})
	})
})
