package gauge_test

import (
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/notiuneoffiicial/LibreChat-sub002/pkg/config"
	"github.com/notiuneoffiicial/LibreChat-sub002/pkg/gauge"
)

var _ = Describe("Gauge", func() {
	var (
		store gauge.Store
		g     *gauge.Gauge
		now   time.Time
	)

	settings := config.GaugeSettings{
		DefaultIntent:    "chat",
		DefaultIntensity: 0.4,
		DecayRate:        0.05,
		DecayInterval:    60 * time.Second,
		SwitchMargin:     0.12,
		SwitchThreshold:  0.6,
		Cooldown:         45 * time.Second,
		Epsilon:          0.02,
	}

	BeforeEach(func() {
		store = gauge.NewStore()
		g = gauge.New(store, settings)
		now = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
		g.Now = func() time.Time { return now }
	})

	advance := func(d time.Duration) { now = now.Add(d) }

	Describe("Peek", func() {
		It("returns the default state for a fresh key without creating it", func() {
			st := g.Peek("u1:c1")
			Expect(st.Intent).To(Equal("chat"))
			Expect(st.Intensity).To(Equal(0.4))
			Expect(store.Len()).To(BeZero())
		})

		It("returns stored state once one exists", func() {
			g.Apply("u1:c1", gauge.Observation{Intent: "coding", Intensity: 0.8, Forced: true})
			st := g.Peek("u1:c1")
			Expect(st.Intent).To(Equal("coding"))
			Expect(store.Len()).To(Equal(1))
		})
	})

	Describe("switching", func() {
		It("ignores a weak candidate and keeps the default", func() {
			res := g.Apply("u1:c1", gauge.Observation{Intent: "coding", Intensity: 0.45})
			Expect(res.Switched).To(BeFalse())
			Expect(res.State.Intent).To(Equal("chat"))
			// The nudged intensity (0.45*0.75) does not beat the stored 0.4.
			Expect(res.State.Intensity).To(Equal(0.4))
		})

		It("switches immediately on a forced observation", func() {
			res := g.Apply("u1:c1", gauge.Observation{Intent: "research", Intensity: 0.8, Forced: true})
			Expect(res.Switched).To(BeTrue())
			Expect(res.PrevIntent).To(Equal("chat"))
			Expect(res.State.Intent).To(Equal("research"))
			Expect(res.State.Intensity).To(Equal(0.8))
		})

		It("adopts new intensity for the same intent without reporting a switch", func() {
			g.Apply("u1:c1", gauge.Observation{Intent: "coding", Intensity: 0.7, Forced: true})
			res := g.Apply("u1:c1", gauge.Observation{Intent: "coding", Intensity: 0.9})
			Expect(res.Switched).To(BeFalse())
			Expect(res.State.Intensity).To(Equal(0.9))
			Expect(res.PrevIntent).To(Equal("coding"))
		})

		It("switches when the candidate clears the stored intensity by the margin", func() {
			g.Apply("u1:c1", gauge.Observation{Intent: "coding", Intensity: 0.5, Forced: true})
			res := g.Apply("u1:c1", gauge.Observation{Intent: "writing", Intensity: 0.7})
			Expect(res.Switched).To(BeTrue())
			Expect(res.State.Intent).To(Equal("writing"))
		})

		It("holds a competing intent inside the margin until the cooldown passes", func() {
			g.Apply("u1:c1", gauge.Observation{Intent: "coding", Intensity: 0.82, Forced: true})

			// 10s later: 0.85 is above the threshold but inside the margin,
			// and the cooldown since the forced switch has not elapsed.
			advance(10 * time.Second)
			res := g.Apply("u1:c1", gauge.Observation{Intent: "writing", Intensity: 0.85})
			Expect(res.Switched).To(BeFalse())
			Expect(res.State.Intent).To(Equal("coding"))
			Expect(res.State.Intensity).To(BeNumerically("~", 0.8117, 0.001))

			// Another 50s on, the cooldown has elapsed and the strong
			// candidate wins via the threshold path.
			advance(50 * time.Second)
			res = g.Apply("u1:c1", gauge.Observation{Intent: "writing", Intensity: 0.85})
			Expect(res.Switched).To(BeTrue())
			Expect(res.State.Intent).To(Equal("writing"))
			Expect(res.State.Intensity).To(Equal(0.85))
		})
	})

	Describe("decay", func() {
		It("loses intensity linearly with elapsed time", func() {
			g.Apply("u1:c1", gauge.Observation{Intent: "coding", Intensity: 0.82, Forced: true})

			advance(10 * time.Minute)
			res := g.Apply("u1:c1", gauge.Observation{Intent: "chat", Intensity: 0.3})
			Expect(res.Decayed).To(BeNumerically("~", 0.5, 1e-9))
			Expect(res.State.Intent).To(Equal("coding"))
			Expect(res.State.Intensity).To(BeNumerically("~", 0.32, 1e-9))
		})

		It("snaps back to the default intent once intensity hits epsilon", func() {
			g.Apply("u1:c1", gauge.Observation{Intent: "coding", Intensity: 0.82, Forced: true})

			advance(30 * time.Minute)
			res := g.Apply("u1:c1", gauge.Observation{Intent: "chat", Intensity: 0})
			Expect(res.State.Intent).To(Equal("chat"))
			Expect(res.State.Intensity).To(Equal(0.4))
			Expect(res.Switched).To(BeFalse())
		})
	})

	Describe("clamping", func() {
		It("clamps observed intensity into [0,1]", func() {
			res := g.Apply("u1:c1", gauge.Observation{Intent: "coding", Intensity: 1.5, Forced: true})
			Expect(res.State.Intensity).To(Equal(1.0))

			res = g.Apply("u1:c1", gauge.Observation{Intent: "coding", Intensity: -0.5})
			Expect(res.State.Intensity).To(BeNumerically(">=", 0))
		})
	})

	Describe("concurrent access", func() {
		It("keeps one consistent record per key", func() {
			var wg sync.WaitGroup
			for i := 0; i < 64; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					g.Apply("u1:c1", gauge.Observation{Intent: "coding", Intensity: 0.8, Forced: true})
				}()
			}
			wg.Wait()

			Expect(store.Len()).To(Equal(1))
			st := g.Peek("u1:c1")
			Expect(st.Intent).To(Equal("coding"))
			Expect(st.Intensity).To(Equal(0.8))
		})
	})
})

var _ = Describe("SweepIdle", func() {
	It("evicts only entries idle past the cutoff", func() {
		store := gauge.NewStore()
		g := gauge.New(store, config.GaugeSettings{
			DefaultIntent:    "chat",
			DefaultIntensity: 0.4,
			DecayInterval:    time.Minute,
		})
		now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
		g.Now = func() time.Time { return now }

		g.Apply("u1:old", gauge.Observation{Intent: "coding", Intensity: 0.8, Forced: true})
		now = now.Add(2 * time.Hour)
		g.Apply("u1:fresh", gauge.Observation{Intent: "writing", Intensity: 0.8, Forced: true})

		evicted := gauge.SweepIdle(store, time.Hour, now)
		Expect(evicted).To(Equal(1))
		Expect(store.Len()).To(Equal(1))

		_, ok := store.Peek("u1:fresh")
		Expect(ok).To(BeTrue())
	})
})
