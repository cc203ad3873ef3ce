package pipeline_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/ucsim/emu"
	"github.com/sarchlab/ucsim/timing/pipeline"
)

var _ = Describe("SkipState", func() {
	Describe("suppression", func() {
		It("should suppress nothing in NoSkip", func() {
			Expect(pipeline.NoSkip.SuppressDecode()).To(BeFalse())
			Expect(pipeline.NoSkip.SuppressExecute()).To(BeFalse())
		})

		It("should suppress only the decode stage in SkipStage2Next", func() {
			Expect(pipeline.SkipStage2Next.SuppressDecode()).To(BeTrue())
			Expect(pipeline.SkipStage2Next.SuppressExecute()).To(BeFalse())
		})

		It("should suppress only the execute stage in SkipStage3Only", func() {
			Expect(pipeline.SkipStage3Only.SuppressDecode()).To(BeFalse())
			Expect(pipeline.SkipStage3Only.SuppressExecute()).To(BeTrue())
		})

		It("should suppress both stages in SkipBothNext", func() {
			Expect(pipeline.SkipBothNext.SuppressDecode()).To(BeTrue())
			Expect(pipeline.SkipBothNext.SuppressExecute()).To(BeTrue())
		})
	})

	Describe("transitions", func() {
		It("should stay in NoSkip without hazards", func() {
			Expect(pipeline.NoSkip.Next(false, false)).To(Equal(pipeline.NoSkip))
		})

		It("should cost one bubble for a taken branch", func() {
			Expect(pipeline.NoSkip.Next(false, true)).To(Equal(pipeline.SkipStage2Next))
			Expect(pipeline.SkipStage2Next.Next(false, false)).To(Equal(pipeline.NoSkip))
		})

		It("should cost two bubbles for a register jump", func() {
			Expect(pipeline.NoSkip.Next(true, false)).To(Equal(pipeline.SkipBothNext))
			Expect(pipeline.SkipBothNext.Next(false, false)).To(Equal(pipeline.SkipStage3Only))
			Expect(pipeline.SkipStage3Only.Next(false, false)).To(Equal(pipeline.NoSkip))
		})

		It("should let a register jump win over a taken branch", func() {
			Expect(pipeline.NoSkip.Next(true, true)).To(Equal(pipeline.SkipBothNext))
		})

		It("should honor a new hazard decoded while the execute slot drains", func() {
			// SkipStage3Only leaves the decode slot live, so its hazard
			// signals are real.
			Expect(pipeline.SkipStage3Only.Next(false, true)).To(Equal(pipeline.SkipStage2Next))
			Expect(pipeline.SkipStage3Only.Next(true, false)).To(Equal(pipeline.SkipBothNext))
		})

		It("should ignore hazard signals while decode is suppressed", func() {
			Expect(pipeline.SkipStage2Next.Next(false, false)).To(Equal(pipeline.NoSkip))
			Expect(pipeline.SkipBothNext.Next(false, false)).To(Equal(pipeline.SkipStage3Only))
		})
	})

	Describe("String", func() {
		It("should name every state", func() {
			Expect(pipeline.NoSkip.String()).To(Equal("NoSkip"))
			Expect(pipeline.SkipStage3Only.String()).To(Equal("SkipStage3Only"))
			Expect(pipeline.SkipStage2Next.String()).To(Equal("SkipStage2Next"))
			Expect(pipeline.SkipBothNext.String()).To(Equal("SkipBothNext"))
		})
	})
})

var _ = Describe("BypassNetwork", func() {
	var bypass *pipeline.BypassNetwork

	BeforeEach(func() {
		bypass = pipeline.NewBypassNetwork()
	})

	It("should pass registered flags through when nothing commits", func() {
		flags := emu.Flags{C: true, Z: false}

		out := bypass.Flags(pipeline.ExecuteResult{}, flags)

		Expect(out).To(Equal(flags))
	})

	It("should forward a committing carry flag", func() {
		res := pipeline.ExecuteResult{
			Flags:  emu.Flags{C: true, Z: true},
			WriteC: true,
		}

		out := bypass.Flags(res, emu.Flags{})

		Expect(out.C).To(BeTrue())
		Expect(out.Z).To(BeFalse())
	})

	It("should forward a committing zero flag", func() {
		res := pipeline.ExecuteResult{
			Flags:  emu.Flags{Z: true},
			WriteZ: true,
		}

		out := bypass.Flags(res, emu.Flags{C: true})

		Expect(out.Z).To(BeTrue())
		Expect(out.C).To(BeTrue())
	})

	It("should forward a committing accumulator value", func() {
		res := pipeline.ExecuteResult{AccValue: 0x42, WriteAcc: true}

		Expect(bypass.Acc(res, 0x00)).To(Equal(uint8(0x42)))
	})

	It("should keep the registered accumulator otherwise", func() {
		res := pipeline.ExecuteResult{AccValue: 0x42}

		Expect(bypass.Acc(res, 0x11)).To(Equal(uint8(0x11)))
	})
})
