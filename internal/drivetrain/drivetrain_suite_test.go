package drivetrain_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/diffdrive/internal/drivetrain"
	"github.com/san-kum/diffdrive/internal/geom"
	"github.com/san-kum/diffdrive/internal/plant"
)

func TestDrivetrain(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Drivetrain Suite")
}

var _ = Describe("Drivetrain tracking", func() {
	var (
		p      *plant.Plant
		dt     *drivetrain.Drivetrain
		ctx    context.Context
		cancel context.CancelFunc
		cycles atomic.Int64
	)

	BeforeEach(func() {
		var err error
		cfg := drivetrain.DefaultConfig()

		pcfg := plant.DefaultConfig()
		pcfg.Calibration = 200 * time.Millisecond
		p, err = plant.New(nil, nil, pcfg)
		Expect(err).NotTo(HaveOccurred())
		p.Place(geom.Pose{Heading: 90})

		ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
		go func() {
			defer GinkgoRecover()
			Expect(p.Run(ctx)).To(Succeed())
		}()

		logger := log.NewWithOptions(GinkgoWriter, log.Options{Level: log.DebugLevel, Prefix: "test"})
		cycles.Store(0)
		dt, err = drivetrain.New(p.Left(), p.Right(), cfg,
			drivetrain.WithIMU(p.IMU()),
			drivetrain.WithLogger(logger),
			drivetrain.WithObserver(drivetrain.ObserverFunc(func(drivetrain.Sample) { cycles.Add(1) })),
		)
		Expect(err).NotTo(HaveOccurred())
		Expect(dt.StartTracking(ctx, geom.Vec(0, 0), 90)).To(Succeed())
	})

	AfterEach(func() {
		if dt.IsTracking() {
			Expect(dt.StopTracking()).To(Succeed())
		}
		cancel()
	})

	It("rejects a second start", func() {
		Expect(dt.StartTracking(ctx, geom.Vec(0, 0), 90)).To(MatchError(drivetrain.ErrAlreadyTracking))
	})

	It("notifies observers every cycle", func() {
		Eventually(cycles.Load).WithTimeout(time.Second).Should(BeNumerically(">", 10))
	})

	It("drives a distance and holds heading", func() {
		Expect(dt.Drive(ctx, 48, true)).To(Succeed())
		Expect(dt.IsSettled()).To(BeTrue())
		Expect(dt.ForwardTravel()).To(BeNumerically("~", 48, 1.0))
		Expect(geom.SignedDegrees(dt.Heading() - 90)).To(BeNumerically("~", 0, 3.0))
	})

	It("moves to a point", func() {
		goal := geom.Vec(24, 24)
		Expect(dt.MoveTo(ctx, goal, true)).To(Succeed())
		Expect(dt.Position().Distance(goal)).To(BeNumerically("<=", dt.DriveTolerance()))
	})

	It("settles in the background after a non-blocking move", func() {
		Expect(dt.TurnTo(ctx, 180, false)).To(Succeed())
		Expect(dt.IsSettled()).To(BeFalse())
		Eventually(dt.IsSettled).WithTimeout(10 * time.Second).Should(BeTrue())
		Expect(geom.SignedDegrees(dt.Heading() - 180)).To(BeNumerically("~", 0, 3.0))
	})

	It("follows a path to its last waypoint", func() {
		path := []geom.Vector2{geom.Vec(0, 30), geom.Vec(30, 30)}
		Expect(dt.FollowPath(ctx, path)).To(Succeed())
		Expect(dt.Position().Distance(geom.Vec(30, 30))).To(BeNumerically("<=", dt.DriveTolerance()))
	})

	It("zeros the motors when stopped", func() {
		Expect(dt.Drive(ctx, 200, false)).To(Succeed())
		Eventually(func() float64 {
			l, _ := p.Voltages()
			return l
		}).WithTimeout(time.Second).ShouldNot(BeZero())

		Expect(dt.StopTracking()).To(Succeed())
		l, r := p.Voltages()
		Expect(l).To(BeZero())
		Expect(r).To(BeZero())
	})

	It("releases blocked callers when tracking stops", func() {
		go func() {
			defer GinkgoRecover()
			time.Sleep(100 * time.Millisecond)
			Expect(dt.StopTracking()).To(Succeed())
		}()
		Expect(dt.Drive(ctx, 1000, true)).To(MatchError(drivetrain.ErrNotTracking))
	})

	It("honours context deadlines on blocking calls", func() {
		short, done := context.WithTimeout(ctx, 50*time.Millisecond)
		defer done()
		Expect(dt.Drive(short, 1000, true)).To(MatchError(context.DeadlineExceeded))
	})

	It("calibrates the IMU", func() {
		Expect(dt.CalibrateIMU(ctx)).To(Succeed())
	})

	It("keeps tracking on wheels after the IMU is unplugged", func() {
		p.Unplug()
		Eventually(dt.UsingIMU).WithTimeout(time.Second).Should(BeFalse())
		Expect(dt.Drive(ctx, 12, true)).To(Succeed())
		Expect(dt.ForwardTravel()).To(BeNumerically("~", 12, 1.0))
	})
})
