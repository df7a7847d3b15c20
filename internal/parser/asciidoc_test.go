package parser_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fjglira/storeflow/internal/domain"
	"github.com/fjglira/storeflow/internal/parser"
)

var _ = Describe("AsciiDocParser", func() {
	var p *parser.AsciiDocParser

	BeforeEach(func() {
		p = parser.NewAsciiDocParser([]string{"storeflow"})
	})

	Describe("SupportedExtensions", func() {
		It("should support .adoc and .asciidoc", func() {
			Expect(p.SupportedExtensions()).To(ContainElements(".adoc", ".asciidoc"))
		})
	})

	Describe("Parse storefront.adoc", func() {
		var docs []*domain.ScenarioDocument

		BeforeEach(func() {
			var err error
			docs, err = p.Parse("storefront.adoc", readTestdata("docs", "storefront.adoc"))
			Expect(err).ToNot(HaveOccurred())
		})

		It("should extract the tagged listings only", func() {
			Expect(docs).To(HaveLen(2))
			Expect(docs[0].FileType).To(Equal("asciidoc"))
		})

		It("should take the suite from the directive when the document has none", func() {
			Expect(docs[0].Suite).To(Equal("guide"))
			Expect(docs[1].Suite).To(Equal("guide"))
		})

		It("should name scenarios from the heading or the name attribute", func() {
			Expect(docs[0].Groups[0].Name).To(Equal("Cart badge"))
			Expect(docs[1].Groups[0].Name).To(Equal("Locked out user"))
		})

		It("should decode rows", func() {
			Expect(docs[1].Groups[0].Kind).To(Equal("invalid_login"))
			Expect(docs[1].Groups[0].Rows).To(HaveLen(1))
		})
	})

	It("should reject a directive without listing", func() {
		_, err := p.Parse("bad.adoc", []byte("[source,storeflow]\nscenarios: []\n"))
		Expect(err).To(MatchError(ContainSubstring("without listing")))
	})

	It("should reject an unterminated listing", func() {
		_, err := p.Parse("bad.adoc", []byte("[source,storeflow]\n----\nscenarios:\n  - kind: cart_badge\n"))
		Expect(err).To(MatchError(ContainSubstring("unterminated")))
	})
})
