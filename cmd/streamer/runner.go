package main

import (
	"context"

	"github.com/yanun0323/logs"

	"venuestream/internal/config"
	"venuestream/internal/model/enum"
	"venuestream/internal/stream"
)

type eventSink interface {
	AppendBatch(ctx context.Context, events []stream.Event) error
}

// maxJournalBatch caps the events journaled in one insert.
const maxJournalBatch = 256

// runner keeps one session streaming: it connects, starts every descriptor
// and drains events until the session is lost, then reconnects.
type runner struct {
	session     *stream.Session
	descriptors []stream.Descriptor
	start       stream.StartOptions
	backoff     backoff
	journal     eventSink
}

func (r *runner) run(ctx context.Context) {
	attempt := 0
	for ctx.Err() == nil {
		if err := r.connect(ctx); err != nil {
			attempt++
			logs.Errorf("connect stream, attempt: %d, err: %+v", attempt, err)
			if !r.backoff.sleep(ctx, attempt) {
				return
			}
			continue
		}

		attempt = 0
		r.drain(ctx)
		if ctx.Err() != nil {
			return
		}

		attempt++
		logs.Warnf("stream lost, reconnect attempt: %d", attempt)
		if !r.backoff.sleep(ctx, attempt) {
			return
		}
	}
}

func (r *runner) connect(ctx context.Context) error {
	if err := r.session.Connect(ctx); err != nil {
		return err
	}

	_, errs := r.session.StartSubscriptions(ctx, r.descriptors, r.start)
	started := 0
	for i, err := range errs {
		if err != nil {
			logs.Errorf("start subscription %v, err: %+v", r.descriptors[i].Items(), err)
			continue
		}
		started++
	}
	logs.Infof("started %d of %d subscriptions", started, len(r.descriptors))
	return nil
}

// drain pops until the session has nothing more to deliver. Events already
// queued behind the first one are journaled together.
func (r *runner) drain(ctx context.Context) {
	batch := make([]stream.Event, 0, maxJournalBatch)
	for {
		ev, ok := r.session.PopData()
		if !ok {
			return
		}
		batch = append(batch[:0], ev)
		for len(batch) < maxJournalBatch && r.session.HasDataAvailable() {
			ev, ok := r.session.PopData()
			if !ok {
				break
			}
			batch = append(batch, ev)
		}
		r.handle(ctx, batch)
	}
}

func (r *runner) handle(ctx context.Context, events []stream.Event) {
	for _, ev := range events {
		switch ev.Type {
		case enum.EventTypeTransportError:
			if ev.Fatal {
				logs.Errorf("stream failed, err: %+v", ev.Err)
			} else {
				logs.Warnf("stream error %s, err: %+v", ev.Item, ev.Err)
			}
		default:
			logs.Debugf("%s %s %s", ev.Type, ev.Kind, ev.Item)
		}
	}

	if r.journal != nil {
		if err := r.journal.AppendBatch(ctx, events); err != nil {
			logs.Errorf("journal %d events, err: %+v", len(events), err)
		}
	}
}

func buildDescriptors(b *stream.Builder, cfg config.SubscriptionsConfig) ([]stream.Descriptor, error) {
	var descriptors []stream.Descriptor
	add := func(d stream.Descriptor, err error) error {
		if err != nil {
			return err
		}
		descriptors = append(descriptors, d)
		return nil
	}

	if cfg.Balances {
		if err := add(b.AccountBalances(nil)); err != nil {
			return nil, err
		}
	}
	if cfg.Trades {
		if err := add(b.TradeEvents(nil)); err != nil {
			return nil, err
		}
	}
	if len(cfg.Markets) != 0 {
		if err := add(b.MarketPrices(cfg.Markets)); err != nil {
			return nil, err
		}
	}
	if len(cfg.ChartTicks) != 0 {
		if err := add(b.ChartTicks(cfg.ChartTicks)); err != nil {
			return nil, err
		}
	}

	// One descriptor per scale, epics in configuration order.
	var scales []enum.Scale
	epics := make(map[enum.Scale][]string)
	for _, candle := range cfg.ChartCandles {
		scale := candle.ScaleOf()
		if _, ok := epics[scale]; !ok {
			scales = append(scales, scale)
		}
		epics[scale] = append(epics[scale], candle.Epic)
	}
	for _, scale := range scales {
		if err := add(b.ChartCandles(epics[scale], scale)); err != nil {
			return nil, err
		}
	}
	return descriptors, nil
}
