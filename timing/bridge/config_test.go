package bridge_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/axi2apb/timing/bridge"
)

var _ = Describe("Config", func() {
	Describe("Default Values", func() {
		It("should describe a 32-bit single-target bridge", func() {
			config := bridge.DefaultConfig()
			Expect(config.AddrWidth).To(Equal(32))
			Expect(config.DataWidth).To(Equal(32))
			Expect(config.QueueDepth).To(Equal(4))
			Expect(config.NumTargets).To(Equal(1))
			Expect(config.FastClockMHz).To(Equal(400.0))
			Expect(config.SlowClockMHz).To(Equal(100.0))
		})

		It("should validate cleanly", func() {
			Expect(bridge.DefaultConfig().Validate()).To(Succeed())
		})
	})

	Describe("Validate", func() {
		var config *bridge.Config

		BeforeEach(func() {
			config = bridge.DefaultConfig()
		})

		It("should reject an out-of-range address width", func() {
			config.AddrWidth = 0
			Expect(config.Validate()).To(HaveOccurred())

			config.AddrWidth = 65
			Expect(config.Validate()).To(MatchError(ContainSubstring("addr_width")))
		})

		It("should reject an unsupported data width", func() {
			config.DataWidth = 12
			Expect(config.Validate()).To(MatchError(ContainSubstring("data_width")))
		})

		It("should reject a non-power-of-two queue depth", func() {
			config.QueueDepth = 3
			Expect(config.Validate()).To(MatchError(ContainSubstring("queue_depth")))

			config.QueueDepth = 0
			Expect(config.Validate()).To(HaveOccurred())
		})

		It("should reject a target count below one", func() {
			config.NumTargets = 0
			Expect(config.Validate()).To(MatchError(ContainSubstring("num_targets")))
		})

		It("should reject target selection eating the whole address", func() {
			config.AddrWidth = 1
			config.NumTargets = 2
			Expect(config.Validate()).To(MatchError(ContainSubstring("offset bits")))
		})

		It("should reject non-positive clocks", func() {
			config.FastClockMHz = 0
			Expect(config.Validate()).To(MatchError(ContainSubstring("fast_clock_mhz")))

			config = bridge.DefaultConfig()
			config.SlowClockMHz = -1
			Expect(config.Validate()).To(MatchError(ContainSubstring("slow_clock_mhz")))
		})
	})

	Describe("Clone", func() {
		It("should not share state with the original", func() {
			original := bridge.DefaultConfig()
			clone := original.Clone()
			clone.QueueDepth = 16

			Expect(original.QueueDepth).To(Equal(4))
			Expect(clone.QueueDepth).To(Equal(16))
		})
	})

	Describe("File Operations", func() {
		var tempDir string

		BeforeEach(func() {
			var err error
			tempDir, err = os.MkdirTemp("", "bridge-config-test")
			Expect(err).NotTo(HaveOccurred())
		})

		AfterEach(func() {
			_ = os.RemoveAll(tempDir)
		})

		It("should save and load config", func() {
			original := bridge.DefaultConfig()
			original.QueueDepth = 8
			original.SlowClockMHz = 50

			path := filepath.Join(tempDir, "bridge.json")
			Expect(original.SaveConfig(path)).To(Succeed())

			loaded, err := bridge.LoadConfig(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(Equal(original))
		})

		It("should keep defaults for absent fields", func() {
			path := filepath.Join(tempDir, "partial.json")
			err := os.WriteFile(path, []byte(`{"queue_depth": 8}`), 0644)
			Expect(err).NotTo(HaveOccurred())

			loaded, err := bridge.LoadConfig(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.QueueDepth).To(Equal(8))
			Expect(loaded.AddrWidth).To(Equal(32))
			Expect(loaded.FastClockMHz).To(Equal(400.0))
		})

		It("should return error for non-existent file", func() {
			_, err := bridge.LoadConfig(filepath.Join(tempDir, "missing.json"))
			Expect(err).To(HaveOccurred())
		})

		It("should return error for invalid JSON", func() {
			path := filepath.Join(tempDir, "invalid.json")
			err := os.WriteFile(path, []byte("not valid json"), 0644)
			Expect(err).NotTo(HaveOccurred())

			_, err = bridge.LoadConfig(path)
			Expect(err).To(HaveOccurred())
		})
	})
})
