package textenhancer

import (
	"context"
	"log/slog"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("LocalRewrite", func() {
	DescribeTable("rewrites feedback offline",
		func(input, expected string) {
			Expect(LocalRewrite(input)).To(Equal(expected))
		},
		Entry("short text gets capitalised, terminated and prefixed", "  great work  ", "Professional feedback: Great work."),
		Entry("five words are left unprefixed", "thanks for the quick fix", "Thanks for the quick fix."),
		Entry("existing punctuation is kept", "you shipped the whole migration early!", "You shipped the whole migration early!"),
		Entry("questions are kept", "could you document the release process?", "Could you document the release process?"),
		Entry("non-letter first characters are left alone", "3 releases shipped on time this quarter", "3 releases shipped on time this quarter."),
		Entry("multibyte first letters are capitalised", "élan in every single review", "Élan in every single review."),
		Entry("blank input is unchanged", "   ", "   "),
	)

	It("should build three fallback options from the rewrite", func() {
		Expect(LocalOptions("well done")).To(Equal([]string{
			"Professional feedback: Well done.",
			"I would like to provide feedback: Professional feedback: Well done.",
			"Professional feedback: Well done. Thank you for your consideration.",
		}))
	})
})

var _ = Describe("cleanGenerated", func() {
	DescribeTable("tidies model output",
		func(input, expected string) {
			Expect(cleanGenerated(input)).To(Equal(expected))
		},
		Entry("drops an echoed prompt", "Feedback: x\n\nProfessional feedback: Clear and kind.", "Clear and kind."),
		Entry("strips wrapping quotes", `  "Clear and kind."  `, "Clear and kind."),
		Entry("keeps inner quotes", `She said "ship it" and we did.`, `She said "ship it" and we did.`),
		Entry("keeps a lone quote", `"`, `"`),
	)
})

var _ = Describe("parseOptions", func() {
	It("should accept numbered lists", func() {
		options, ok := parseOptions("1. First.\n2. Second.\n3. Third.")
		Expect(ok).To(BeTrue())
		Expect(options).To(Equal([]string{"First.", "Second.", "Third."}))
	})

	It("should accept mixed-case labels", func() {
		options, ok := parseOptions("Option 1: A.\nOption 2: B.\nOption 3: C.")
		Expect(ok).To(BeTrue())
		Expect(options).To(Equal([]string{"A.", "B.", "C."}))
	})

	It("should fall back to the first three plain lines", func() {
		options, ok := parseOptions("\nAlpha.\n\nBeta.\nGamma.\nDelta.")
		Expect(ok).To(BeTrue())
		Expect(options).To(Equal([]string{"Alpha.", "Beta.", "Gamma."}))
	})

	It("should reject answers with fewer than three options", func() {
		_, ok := parseOptions("OPTION 1: A.\nOPTION 2: B.")
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("submit", func() {
	It("should refuse work when the queue is full instead of blocking", func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		c := &Client{
			jobQueue: make(chan completionJob, 1),
			ctx:      ctx,
			logger:   slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError})),
		}
		c.jobQueue <- completionJob{}

		_, err := c.submit(context.Background(), "prompt", 10, 0.5)
		Expect(err).To(MatchError(errQueueFull))
	})

	It("should report shutdown to callers still waiting", func() {
		ctx, cancel := context.WithCancel(context.Background())
		c := &Client{
			jobQueue: make(chan completionJob, 1),
			ctx:      ctx,
			logger:   slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError})),
		}
		cancel()

		_, err := c.submit(context.Background(), "prompt", 10, 0.5)
		Expect(err).To(MatchError(errShuttingDown))
	})
})
