package scanner_test

import (
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fjglira/storeflow/internal/scanner"
)

var _ = Describe("Scanner", func() {
	var (
		s        *scanner.FileScanner
		root     string
		patterns = []string{"*.yaml", "*.yml", "*.md"}
	)

	BeforeEach(func() {
		root = filepath.Join("..", "..", "testdata", "scenarios")
		s = scanner.NewScanner(patterns, nil, true)
	})

	base := func(files []string) []string {
		names := make([]string, len(files))
		for i, f := range files {
			names[i] = filepath.Base(f)
		}
		return names
	}

	It("should find scenario files recursively", func() {
		files, err := s.Scan(root)
		Expect(err).ToNot(HaveOccurred())
		Expect(base(files)).To(ConsistOf("cart.yml", "checkout.yaml", "journeys.md", "login.yaml"))
	})

	It("should return sorted file paths", func() {
		files, err := s.Scan(root)
		Expect(err).ToNot(HaveOccurred())
		Expect(files).To(HaveLen(4))
		Expect(filepath.Base(files[0])).To(Equal("cart.yml"))
		Expect(filepath.Base(files[1])).To(Equal("checkout.yaml"))
	})

	It("should filter by include pattern", func() {
		s = scanner.NewScanner([]string{"*.md"}, nil, true)
		files, err := s.Scan(root)
		Expect(err).ToNot(HaveOccurred())
		Expect(base(files)).To(ConsistOf("journeys.md"))
	})

	It("should respect exclude patterns", func() {
		s = scanner.NewScanner(patterns, []string{"login.yaml", "cart/**"}, true)
		files, err := s.Scan(root)
		Expect(err).ToNot(HaveOccurred())
		Expect(base(files)).To(ConsistOf("checkout.yaml", "journeys.md"))
	})

	It("should handle non-recursive mode", func() {
		s = scanner.NewScanner(patterns, nil, false)
		files, err := s.Scan(root)
		Expect(err).ToNot(HaveOccurred())
		Expect(base(files)).ToNot(ContainElement("cart.yml"))
		Expect(files).To(HaveLen(3))
	})

	It("should merge several roots without duplicates", func() {
		files, err := s.ScanAll([]string{root, root, filepath.Join(root, "cart")}, nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(files).To(HaveLen(4))
	})

	It("should fail on a missing root without a skip func", func() {
		_, err := s.ScanAll([]string{"nonexistent_dir", root}, nil)
		Expect(err).To(MatchError(ContainSubstring("[scan]")))
	})

	It("should skip roots the skip func accepts", func() {
		var skipped []string
		files, err := s.ScanAll([]string{"nonexistent_dir", root}, func(dir string, _ error) bool {
			skipped = append(skipped, dir)
			return true
		})
		Expect(err).ToNot(HaveOccurred())
		Expect(files).To(HaveLen(4))
		Expect(skipped).To(Equal([]string{"nonexistent_dir"}))
	})

	It("should return error for nonexistent directory", func() {
		_, err := s.Scan("nonexistent_dir")
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("[scan]"))
	})
})
