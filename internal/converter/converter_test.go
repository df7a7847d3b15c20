package converter_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fjglira/storeflow/internal/converter"
	"github.com/fjglira/storeflow/internal/domain"
	"github.com/fjglira/storeflow/internal/parser"
	"github.com/fjglira/storeflow/internal/runner"
)

func parseFile(parts ...string) *domain.ScenarioDocument {
	path := filepath.Join(append([]string{"..", "..", "testdata"}, parts...)...)
	content, err := os.ReadFile(path)
	Expect(err).ToNot(HaveOccurred())
	docs, err := parser.NewYAMLParser().Parse(path, content)
	Expect(err).ToNot(HaveOccurred())
	return docs[0]
}

func parseInline(content string) *domain.ScenarioDocument {
	docs, err := parser.NewYAMLParser().Parse("inline.yaml", []byte(content))
	Expect(err).ToNot(HaveOccurred())
	return docs[0]
}

var _ = Describe("Converter", func() {
	var conv *converter.DefaultConverter

	BeforeEach(func() {
		conv = converter.NewConverter(runner.Catalog{})
	})

	Describe("Convert login.yaml", func() {
		var scenarios []domain.Scenario

		BeforeEach(func() {
			var err error
			scenarios, err = conv.Convert(parseFile("scenarios", "login.yaml"))
			Expect(err).ToNot(HaveOccurred())
		})

		It("should expand one scenario per row", func() {
			Expect(scenarios).To(HaveLen(7))
			Expect(scenarios[0].ID).To(Equal("saucedemo/valid-login#1"))
			Expect(scenarios[2].ID).To(Equal("saucedemo/valid-login#3"))
			Expect(scenarios[3].ID).To(Equal("saucedemo/invalid-login#1"))
		})

		It("should fill rows from the defaults", func() {
			Expect(scenarios[1].Params.Username).To(Equal("problem_user"))
			Expect(scenarios[1].Params.Password).To(Equal("secret_sauce"))
		})

		It("should keep explicitly empty values", func() {
			noUser := scenarios[5].Params
			Expect(noUser.Username).To(BeEmpty())
			Expect(noUser.Password).To(Equal("secret_sauce"))
			Expect(noUser.ExpectedError).To(Equal("Epic sadface: Username is required"))

			noPassword := scenarios[6].Params
			Expect(noPassword.Username).To(Equal("standard_user"))
			Expect(noPassword.Password).To(BeEmpty())
		})

		It("should resolve steps from the kind", func() {
			steps, _ := runner.Catalog{}.Steps("invalid_login")
			Expect(scenarios[3].Kind).To(Equal("invalid_login"))
			Expect(scenarios[3].Steps).To(Equal(steps))
		})

		It("should point back at the row", func() {
			Expect(scenarios[0].Source).To(MatchRegexp(`login\.yaml:\d+$`))
		})
	})

	It("should run groups without rows once with the defaults", func() {
		scenarios, err := conv.Convert(parseFile("scenarios", "cart", "cart.yml"))
		Expect(err).ToNot(HaveOccurred())
		Expect(scenarios).To(HaveLen(4))
		Expect(scenarios[3].ID).To(Equal("saucedemo/cart-badge#1"))
		Expect(scenarios[3].Params.Username).To(Equal("standard_user"))
	})

	It("should prefer explicit steps over the kind", func() {
		scenarios, err := conv.Convert(parseInline(`
scenarios:
  - kind: valid_login
    name: Just login
    steps: [login]
`))
		Expect(err).ToNot(HaveOccurred())
		Expect(scenarios[0].Kind).To(Equal("valid_login"))
		Expect(scenarios[0].Steps).To(Equal([]domain.Step{domain.S("login")}))
	})

	It("should fall back to the file name for the suite", func() {
		scenarios, err := conv.Convert(parseInline("scenarios:\n  - kind: cart_badge\n"))
		Expect(err).ToNot(HaveOccurred())
		Expect(scenarios[0].ID).To(Equal("inline/cart-badge#1"))
	})

	It("should give every scenario its own steps", func() {
		scenarios, err := conv.Convert(parseFile("scenarios", "checkout.yaml"))
		Expect(err).ToNot(HaveOccurred())
		scenarios[0].Steps[0] = domain.S("mutated")
		Expect(scenarios[1].Steps[0].Op).To(Equal("login"))
	})

	DescribeTable("invalid documents",
		func(doc func() *domain.ScenarioDocument, message string) {
			_, err := conv.Convert(doc())
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("[convert]"))
			Expect(err.Error()).To(ContainSubstring(message))
		},
		Entry("unknown operation", func() *domain.ScenarioDocument {
			return parseFile("invalid", "unknown_op.yaml")
		}, `unknown operation "teleport"`),
		Entry("unknown kind", func() *domain.ScenarioDocument {
			return parseFile("invalid", "unknown_kind.yaml")
		}, `unknown scenario kind "speedrun"`),
		Entry("neither kind nor steps", func() *domain.ScenarioDocument {
			return parseFile("invalid", "both.yaml")
		}, "neither kind nor steps"),
		Entry("duplicate names", func() *domain.ScenarioDocument {
			return parseInline("scenarios:\n  - kind: cart_badge\n  - kind: cart_badge\n")
		}, "duplicate scenario name"),
		Entry("row that is not a mapping", func() *domain.ScenarioDocument {
			return parseInline("scenarios:\n  - kind: cart_badge\n    rows: [standard_user]\n")
		}, "row must be a mapping"),
		Entry("unknown parameter", func() *domain.ScenarioDocument {
			return parseInline("scenarios:\n  - kind: cart_badge\n    rows: [{user: x}]\n")
		}, `unknown parameter "user"`),
	)

	It("should list the kinds when the kind is unknown", func() {
		_, err := conv.Convert(parseFile("invalid", "unknown_kind.yaml"))
		Expect(err.Error()).To(ContainSubstring("end_to_end"))
	})
})
