package engine

import (
	"context"
	"math/rand"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/fluxsim/internal/particle"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newLoop(mode particle.Mode, s Settings, opts ...Option) *Loop {
	base := []Option{
		WithRand(rand.New(rand.NewSource(1))),
		WithMode(mode),
		WithSettings(s),
		WithClock(func() time.Time { return epoch }),
	}
	return New(append(base, opts...)...)
}

func frames(l *Loop, n int) {
	Expect(l.Drive(context.Background(), n, 16*time.Millisecond, nil)).To(Succeed())
}

var _ = Describe("Loop", func() {
	var (
		surface  *recorder
		settings Settings
	)

	BeforeEach(func() {
		surface = newRecorder(800, 600)
		settings = DefaultSettings()
	})

	Describe("setup and teardown", func() {
		It("aborts without a surface", func() {
			l := newLoop(particle.Orbit, settings)
			Expect(l.Start(nil)).To(MatchError(ErrNoSurface))
			Expect(l.Running()).To(BeFalse())

			l.Frame(epoch)
			l.Click(10, 10)
			Expect(l.Population()).To(BeZero())
		})

		It("stops scheduling and ignores input after Stop", func() {
			l := newLoop(particle.Burst, settings)
			Expect(l.Start(surface)).To(Succeed())
			l.Stop()

			Expect(l.Running()).To(BeFalse())
			l.Click(300, 300)
			l.Frame(epoch.Add(time.Second))
			Expect(l.Population()).To(BeZero())
			Expect(surface.rects).To(BeEmpty())
			Expect(l.Drive(context.Background(), 1, time.Millisecond, nil)).To(MatchError(ErrStopped))
		})

		It("honours context cancellation between frames", func() {
			l := newLoop(particle.Orbit, settings)
			Expect(l.Start(surface)).To(Succeed())

			ctx, cancel := context.WithCancel(context.Background())
			err := l.Drive(ctx, 10, time.Millisecond, func(i int) {
				if i == 2 {
					cancel()
				}
			})
			Expect(err).To(MatchError(context.Canceled))
			Expect(l.Stats().Frames).To(Equal(3))
		})
	})

	Describe("seeding", func() {
		It("scatters count particles with random velocity in steady modes", func() {
			for _, m := range []particle.Mode{particle.Orbit, particle.Flow, particle.Push} {
				l := newLoop(m, settings)
				Expect(l.Start(surface)).To(Succeed())
				Expect(l.Population()).To(Equal(settings.Count), m.String())
				for _, p := range l.Particles() {
					Expect(p.Pos.X).To(BeNumerically(">=", 0))
					Expect(p.Pos.X).To(BeNumerically("<", 800))
					Expect(p.Vel.X).To(BeNumerically("~", 0, 1))
					Expect(p.MaxLife).To(Equal(1000))
				}
			}
		})

		It("starts burst and corruption empty", func() {
			for _, m := range []particle.Mode{particle.Burst, particle.Corruption} {
				l := newLoop(m, settings)
				Expect(l.Start(surface)).To(Succeed())
				Expect(l.Population()).To(BeZero(), m.String())
			}
		})

		It("keeps every rain column alive and wraps it back to the top", func() {
			l := newLoop(particle.Rain, settings)
			Expect(l.Start(surface)).To(Succeed())

			wrapped := make([]bool, l.GlyphCount())
			last := make([]float64, l.GlyphCount())
			for i, g := range l.Glyphs() {
				last[i] = g.Pos.Y
			}
			// slowest column falls 2 units a frame from at most 600 above
			for f := 0; f < 1000; f++ {
				frames(l, 1)
				Expect(l.GlyphCount()).To(Equal(40))
				for i, g := range l.Glyphs() {
					if g.Pos.Y < last[i] {
						wrapped[i] = true
						Expect(g.Pos.Y).To(Equal(-20.0))
					}
					last[i] = g.Pos.Y
				}
			}
			Expect(wrapped).NotTo(ContainElement(false))
			Expect(l.Population()).To(BeZero())
			Expect(l.Stats().Culled).To(BeZero())
		})

		It("seeds no rain columns on a surface with negative width", func() {
			l := newLoop(particle.Rain, settings)
			Expect(l.Start(newRecorder(-40, 600))).To(Succeed())
			Expect(l.GlyphCount()).To(BeZero())
		})

		It("lays out one rain column per 20 units of width", func() {
			l := newLoop(particle.Rain, settings)
			Expect(l.Start(surface)).To(Succeed())
			Expect(l.Population()).To(BeZero())
			Expect(l.GlyphCount()).To(Equal(40))
			for i, g := range l.Glyphs() {
				Expect(g.Pos.X).To(Equal(float64(i) * 20))
				Expect(g.Pos.Y).To(BeNumerically("<", 0))
			}
		})
	})

	Describe("culling", func() {
		It("keeps the margin and drops anything past it", func() {
			Expect(Cull(particle.New(-50, 10, 0, 0, "#fff", 1, 10), 800, 600)).To(BeFalse())
			Expect(Cull(particle.New(-51, 10, 0, 0, "#fff", 1, 10), 800, 600)).To(BeTrue())
			Expect(Cull(particle.New(850, 650, 0, 0, "#fff", 1, 10), 800, 600)).To(BeFalse())
			Expect(Cull(particle.New(851, 10, 0, 0, "#fff", 1, 10), 800, 600)).To(BeTrue())
			Expect(Cull(particle.New(10, 651, 0, 0, "#fff", 1, 10), 800, 600)).To(BeTrue())
			Expect(Cull(particle.New(10, 10, 0, 0, "#fff", 1, 0), 800, 600)).To(BeTrue())
		})

		It("removes particles that leave the surface during a frame", func() {
			settings.Count = 0
			l := newLoop(particle.Push, settings)
			Expect(l.Start(surface)).To(Succeed())
			l.MouseMove(-1000, -1000)
			l.spawn(particle.New(-50.5, 10, -0.6, 0, "#fff", 1, 10))
			l.spawn(particle.New(-40, 10, 0, 0, "#fff", 1, 10))

			frames(l, 1)
			Expect(l.Population()).To(Equal(1))
			Expect(l.Stats().Culled).To(Equal(1))
			Expect(surface.circles).To(Equal(1))
		})
	})

	Describe("replenishment", func() {
		It("adds exactly one particle per frame until the target", func() {
			settings.Count = 5
			l := newLoop(particle.Push, settings)
			Expect(l.Start(surface)).To(Succeed())
			l.MouseMove(-1000, -1000)

			settings.Count = 8
			l.SetSettings(settings)
			for want := 6; want <= 8; want++ {
				frames(l, 1)
				Expect(l.Population()).To(Equal(want))
			}
			frames(l, 3)
			Expect(l.Population()).To(Equal(8))

			added := l.Particles()[5]
			Expect(added.Vel.X).To(BeZero())
			Expect(added.MaxLife).To(Equal(1000))
		})

		It("never tops up burst, rain or corruption", func() {
			Expect(settings.Count).To(BeNumerically(">", 0))
			for _, m := range []particle.Mode{particle.Burst, particle.Rain} {
				l := newLoop(m, settings)
				Expect(l.Start(surface)).To(Succeed())
				frames(l, 5)
				Expect(l.Population()).To(BeZero(), m.String())
			}

			l := newLoop(particle.Corruption, settings)
			Expect(l.Start(surface)).To(Succeed())
			frames(l, 200)
			Expect(l.Stats().Spawned % 10).To(BeZero())
			Expect(l.Population()).To(BeNumerically("<", settings.Count))
			for _, p := range l.Particles() {
				Expect(p.MaxLife).To(BeNumerically("<", 50))
			}
		})
	})

	Describe("mode switch", func() {
		It("discards flow particles and reseeds orbit", func() {
			settings.Count = 20
			l := newLoop(particle.Flow, settings)
			Expect(l.Start(surface)).To(Succeed())
			for i := 0; i < 10; i++ {
				l.MouseMove(float64(100+i), 100)
			}
			Expect(l.Population()).To(Equal(50))

			l.SetMode(particle.Orbit)
			Expect(l.Mode()).To(Equal(particle.Orbit))
			Expect(l.Population()).To(Equal(20))
			for _, p := range l.Particles() {
				Expect(p.MaxLife).To(Equal(1000))
				Expect(p.Vel.X != 0 || p.Vel.Y != 0).To(BeTrue())
			}
		})

		It("drops rain columns when leaving rain", func() {
			l := newLoop(particle.Rain, settings)
			Expect(l.Start(surface)).To(Succeed())
			l.SetMode(particle.Burst)
			Expect(l.GlyphCount()).To(BeZero())
			Expect(l.Population()).To(BeZero())
		})

		It("keeps the population across resize and settings changes", func() {
			l := newLoop(particle.Orbit, settings)
			Expect(l.Start(surface)).To(Succeed())
			l.Resize(1024, 768)
			settings.Size = 7
			l.SetSettings(settings)

			Expect(l.Population()).To(Equal(200))
			w, h := surface.Size()
			Expect(w).To(Equal(1024.0))
			Expect(h).To(Equal(768.0))
		})
	})

	Describe("emission", func() {
		It("launches a 50 particle burst 100 units above a click and lets it burn out", func() {
			l := newLoop(particle.Burst, settings)
			Expect(l.Start(surface)).To(Succeed())

			l.Click(300, 300)
			Expect(l.Population()).To(Equal(50))
			for _, p := range l.Particles() {
				Expect(p.Pos.Y).To(Equal(200.0))
				Expect(DefaultTheme().BurstColors).To(ContainElement(p.Color))
			}

			frames(l, 100)
			Expect(l.Population()).To(BeZero())
		})

		It("radiates 30 particles from an orbit click", func() {
			settings.Count = 0
			l := newLoop(particle.Orbit, settings)
			Expect(l.Start(surface)).To(Succeed())
			l.Click(400, 300)
			Expect(l.Population()).To(Equal(30))
			for _, p := range l.Particles() {
				Expect(p.Pos.X).To(Equal(400.0))
				Expect(p.Vel.X*p.Vel.X + p.Vel.Y*p.Vel.Y).To(BeNumerically("<", 25))
			}
		})

		It("scatters corruption hits in the accent colours", func() {
			l := newLoop(particle.Corruption, settings)
			Expect(l.Start(surface)).To(Succeed())
			l.Click(400, 300)
			Expect(l.Population()).To(Equal(50))
			accents := DefaultTheme().Accents
			for _, p := range l.Particles() {
				Expect(p.Color).To(BeElementOf(accents[0], accents[1]))
				Expect(p.Pos.X).To(BeNumerically("~", 400, 50))
				Expect(p.Life).To(BeNumerically(">=", 30))
				Expect(p.Life).To(BeNumerically("<", 80))
			}
		})

		It("paints three particles per pointer move only in flow", func() {
			settings.Count = 0
			flow := newLoop(particle.Flow, settings)
			Expect(flow.Start(surface)).To(Succeed())
			flow.MouseMove(10, 10)
			Expect(flow.Population()).To(Equal(3))
			Expect(flow.Particles()[0].MaxLife).To(Equal(150))

			push := newLoop(particle.Push, settings)
			Expect(push.Start(surface)).To(Succeed())
			push.MouseMove(10, 10)
			Expect(push.Population()).To(BeZero())
			Expect(push.Mouse().X).To(Equal(10.0))
		})

		It("spawns corruption clusters at the size setting with short lives", func() {
			settings.Size = 6
			l := newLoop(particle.Corruption, settings)
			Expect(l.Start(surface)).To(Succeed())

			accents := DefaultTheme().Accents
			seen := 0
			for i := 0; i < 300; i++ {
				frames(l, 1)
				for _, p := range l.Particles() {
					// spawned this frame and updated once
					if p.Life != p.MaxLife-1 {
						continue
					}
					seen++
					Expect(p.Size).To(Equal(6.0))
					Expect(p.MaxLife).To(BeNumerically(">=", 20))
					Expect(p.MaxLife).To(BeNumerically("<", 50))
					Expect(p.Color).To(BeElementOf(accents[0], accents[1]))
					Expect(p.Vel.X).To(BeNumerically("~", 0, 5))
					Expect(p.Vel.Y).To(BeNumerically("~", 0, 5))
				}
			}
			Expect(seen).To(BeNumerically(">", 0))
		})

		It("keeps corruption alive without pointer activity", func() {
			l := newLoop(particle.Corruption, settings)
			Expect(l.Start(surface)).To(Succeed())
			frames(l, 200)
			Expect(l.Stats().Spawned).To(BeNumerically(">", 0))
			Expect(l.Stats().Spawned % 10).To(BeZero())
		})
	})

	Describe("drawing", func() {
		DescribeTable("trail wash alpha per mode",
			func(m particle.Mode, want float64) {
				settings.TrailLength = 0.65
				l := newLoop(m, settings)
				Expect(l.Start(surface)).To(Succeed())
				surface.reset()
				frames(l, 1)

				Expect(surface.rects).NotTo(BeEmpty())
				wash := surface.rects[0]
				Expect(wash.alpha).To(Equal(want))
				Expect(wash.w).To(Equal(800.0))
				Expect(wash.h).To(Equal(600.0))
				Expect(wash.color).To(Equal(DefaultTheme().Background))
			},
			Entry("orbit", particle.Orbit, 0.2),
			Entry("burst", particle.Burst, 0.2),
			Entry("flow uses the trail setting", particle.Flow, 0.65),
			Entry("push", particle.Push, 0.2),
			Entry("rain", particle.Rain, 0.05),
			Entry("corruption", particle.Corruption, 0.3),
		)

		It("draws corruption scanlines one unit high in the first accent", func() {
			l := newLoop(particle.Corruption, settings)
			Expect(l.Start(surface)).To(Succeed())
			surface.reset()
			frames(l, 300)

			scanlines := 0
			for _, r := range surface.rects {
				if r.x == 0 && r.y == 0 && r.w == 800 && r.h == 600 {
					continue
				}
				scanlines++
				Expect(r.x).To(BeZero())
				Expect(r.w).To(Equal(800.0))
				Expect(r.h).To(Equal(1.0))
				Expect(r.alpha).To(Equal(0.1))
				Expect(r.color).To(Equal(DefaultTheme().Accents[0]))
				Expect(r.y).To(BeNumerically(">=", 0))
				Expect(r.y).To(BeNumerically("<", 600))
			}
			Expect(scanlines).To(BeNumerically(">", 0))
		})

		It("draws every rain column every frame", func() {
			l := newLoop(particle.Rain, settings)
			Expect(l.Start(surface)).To(Succeed())
			surface.reset()
			frames(l, 1)
			Expect(surface.glyphs).To(Equal(40))
			Expect(surface.circles).To(BeZero())
		})
	})

	Describe("fps sampling", func() {
		It("emits the frame count once per second", func() {
			var samples []int
			l := newLoop(particle.Burst, settings, WithFPSHandler(func(n int) { samples = append(samples, n) }))
			Expect(l.Start(surface)).To(Succeed())

			// 16ms per frame: the 63rd frame lands at 1008ms.
			frames(l, 62)
			Expect(samples).To(BeEmpty())

			frames(l, 1)
			Expect(samples).To(Equal([]int{63}))
			Expect(l.FPS()).To(Equal(63))
		})

		It("reports zero frames for idle seconds and restarts the window", func() {
			var samples []int
			l := newLoop(particle.Burst, settings, WithFPSHandler(func(n int) { samples = append(samples, n) }))
			Expect(l.Start(surface)).To(Succeed())

			frames(l, 10)
			l.Idle(epoch.Add(time.Second))
			l.Idle(epoch.Add(5 * time.Second))
			Expect(samples).To(Equal([]int{10, 0}))

			Expect(l.Drive(context.Background(), 10, 100*time.Millisecond, nil)).To(Succeed())
			Expect(samples).To(Equal([]int{10, 0, 10}))
		})
	})
})
