package clinic

import (
	"fmt"

	"github.com/samabhi/MEDnetworksimulation/sim"
	"github.com/samabhi/MEDnetworksimulation/sim/trace"
)

// roadConditions are drawn with equal probability for every delivery.
var roadConditions = []string{trace.ConditionNormal, trace.ConditionTraffic, trace.ConditionReroute}

func (d DeliveryConfig) forCondition(condition string) Range {
	switch condition {
	case trace.ConditionTraffic:
		return d.Traffic
	case trace.ConditionReroute:
		return d.Reroute
	default:
		return d.Normal
	}
}

// customer queues at the shared counter, buys a random amount from its
// clinic (waiting for a delivery if the stock is short) and leaves.
func (n *Network) customer(name string, c *Clinic) sim.ProcessFunc {
	return func(p *sim.Process) error {
		arrived := p.Now()
		n.record(trace.Record{Kind: trace.KindArrival, Clinic: c.Name, Subject: name})

		req, err := n.counter.Acquire(p)
		if err != nil {
			return err
		}
		defer req.Release()

		rng := n.streams.Source(sim.SubsystemPurchases(c.ID))
		amount := float64(sim.UniformInt(rng, n.cfg.PurchaseAmount.Min, n.cfg.PurchaseAmount.Max))
		if err := c.Stock.Get(p, amount); err != nil {
			return err
		}

		// The purchase itself takes time proportional to the amount.
		if err := p.Timeout(sim.VTime(amount / n.cfg.PurchaseRate)); err != nil {
			return err
		}

		n.record(trace.Record{
			Kind:    trace.KindPurchase,
			Clinic:  c.Name,
			Subject: name,
			Amount:  amount,
			Elapsed: float64(p.Now() - arrived),
		})
		return nil
	}
}

// control inspects the clinic stock on the inspection schedule and, when it
// is below the threshold or empty, calls a truck and waits for it before the
// next inspection.
func (n *Network) control(c *Clinic) sim.ProcessFunc {
	threshold := n.cfg.Threshold()
	return func(p *sim.Process) error {
		for trips := 0; ; {
			level := c.Stock.Level()
			if level < threshold || level == 0 {
				n.record(trace.Record{Kind: trace.KindDispatch, Clinic: c.Name, Subject: "Clinic control", Amount: level})
				truck := p.Spawn(fmt.Sprintf("truck %d for %s", trips, c.Name), n.truck(c))
				trips++
				if err := p.Wait(truck); err != nil {
					return err
				}
			}

			next := n.inspection.Next(p.Now())
			if next <= p.Now() {
				return fmt.Errorf("inspection schedule %s has no time after %v", n.inspection, p.Now())
			}
			if err := p.Timeout(next - p.Now()); err != nil {
				return err
			}
		}
	}
}

// truck drives to the clinic under a random road condition and fills the
// stock up to capacity.
func (n *Network) truck(c *Clinic) sim.ProcessFunc {
	return func(p *sim.Process) error {
		const subject = "Delivery truck"
		rng := n.streams.Source(sim.SubsystemDeliveries(c.ID))

		condition := roadConditions[rng.Intn(len(roadConditions))]
		if condition != trace.ConditionNormal {
			n.record(trace.Record{Kind: trace.KindRoadDelay, Clinic: c.Name, Subject: subject, Condition: condition})
		}
		delay := n.cfg.Delivery.forCondition(condition)
		if err := p.Timeout(sim.VTime(sim.UniformInt(rng, delay.Min, delay.Max))); err != nil {
			return err
		}

		n.record(trace.Record{Kind: trace.KindTruckArrival, Clinic: c.Name, Subject: subject})
		amount := c.Stock.Capacity() - c.Stock.Level()
		n.record(trace.Record{Kind: trace.KindRestock, Clinic: c.Name, Subject: subject, Amount: amount})
		if amount <= 0 {
			return nil
		}
		return c.Stock.Put(amount)
	}
}

// generator spawns a new customer for its clinic after every random
// inter-arrival interval.
func (n *Network) generator(c *Clinic) sim.ProcessFunc {
	return func(p *sim.Process) error {
		rng := n.streams.Source(sim.SubsystemArrivals(c.ID))
		for i := 0; ; i++ {
			gap := sim.UniformInt(rng, n.cfg.InterArrival.Min, n.cfg.InterArrival.Max)
			if err := p.Timeout(sim.VTime(gap)); err != nil {
				return err
			}
			name := fmt.Sprintf("Customer %d", i)
			p.Spawn(name, n.customer(name, c))
		}
	}
}
