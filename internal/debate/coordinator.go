package debate

import (
	"errors"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"
)

type MatchStatus string

const (
	MatchWaiting MatchStatus = "waiting"
	MatchMatched MatchStatus = "matched"
)

// MatchOutcome is what RequestMatch returns to the requesting session.
type MatchOutcome struct {
	Status MatchStatus
	Room   *Room
}

type cmdKind int

const (
	cmdRequest cmdKind = iota
	cmdCancel
	cmdExpire
	cmdPeek
)

type command struct {
	kind    cmdKind
	topic   string
	session *Session
	ticket  uint64
	reply   chan result
}

type result struct {
	outcome MatchOutcome
	waiter  *Session
	err     error
}

type ticket struct {
	id      uint64
	session *Session
	timer   *time.Timer
}

// partition owns the waiting slots of every topic hashed to it. Only the
// partition goroutine touches slots, so check-then-act on a topic is atomic.
type partition struct {
	cmds   chan command
	slots  map[string]*ticket
	nextID uint64
}

// Coordinator pairs sessions asking for the same topic. Topics are spread
// over independent partitions.
type Coordinator struct {
	partitions  []*partition
	registry    *Registry
	waitTimeout time.Duration

	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// errWaiterGone marks a parked ticket whose owner disconnected.
var errWaiterGone = errors.New("waiter gone")

func NewCoordinator(registry *Registry, partitions int, waitTimeout time.Duration) *Coordinator {
	if partitions <= 0 {
		partitions = 1
	}
	c := &Coordinator{
		partitions:  make([]*partition, partitions),
		registry:    registry,
		waitTimeout: waitTimeout,
		done:        make(chan struct{}),
	}
	for i := range c.partitions {
		p := &partition{
			cmds:  make(chan command, 64),
			slots: make(map[string]*ticket),
		}
		c.partitions[i] = p
		c.wg.Add(1)
		go c.run(p)
	}
	return c
}

func (c *Coordinator) partitionFor(topic string) *partition {
	return c.partitions[xxhash.Sum64String(topic)%uint64(len(c.partitions))]
}

// RequestMatch parks the session on the topic, or pairs it with the session
// already waiting there.
func (c *Coordinator) RequestMatch(s *Session, topic string) (MatchOutcome, error) {
	res, err := c.call(command{kind: cmdRequest, topic: topic, session: s})
	if err != nil {
		return MatchOutcome{}, err
	}
	return res.outcome, res.err
}

// Waiting returns the session currently holding the topic's slot.
func (c *Coordinator) Waiting(topic string) (*Session, bool) {
	res, err := c.call(command{kind: cmdPeek, topic: topic})
	if err != nil || res.waiter == nil {
		return nil, false
	}
	return res.waiter, true
}

// cancel frees the topic's slot if the session still holds it.
func (c *Coordinator) cancel(s *Session, topic string) {
	_, _ = c.call(command{kind: cmdCancel, topic: topic, session: s})
}

func (c *Coordinator) call(cmd command) (result, error) {
	cmd.reply = make(chan result, 1)
	p := c.partitionFor(cmd.topic)
	select {
	case p.cmds <- cmd:
	case <-c.done:
		return result{}, ErrCoordinatorStopped
	}
	select {
	case res := <-cmd.reply:
		return res, nil
	case <-c.done:
		return result{}, ErrCoordinatorStopped
	}
}

// Stop terminates the partition goroutines.
func (c *Coordinator) Stop() {
	c.stopOnce.Do(func() { close(c.done) })
	c.wg.Wait()
}

func (c *Coordinator) run(p *partition) {
	defer c.wg.Done()
	for {
		select {
		case <-c.done:
			for _, t := range p.slots {
				if t.timer != nil {
					t.timer.Stop()
				}
			}
			return
		case cmd := <-p.cmds:
			var res result
			switch cmd.kind {
			case cmdRequest:
				res = c.request(p, cmd.topic, cmd.session)
			case cmdCancel:
				if t, ok := p.slots[cmd.topic]; ok && t.session == cmd.session {
					p.remove(cmd.topic)
				}
			case cmdExpire:
				c.expire(p, cmd.topic, cmd.ticket)
			case cmdPeek:
				if t, ok := p.slots[cmd.topic]; ok {
					res.waiter = t.session
				}
			}
			if cmd.reply != nil {
				cmd.reply <- res
			}
		}
	}
}

func (c *Coordinator) request(p *partition, topic string, s *Session) result {
	if t, ok := p.slots[topic]; ok {
		if t.session == s {
			return result{err: ErrAlreadyActive}
		}
		room, err := c.pair(s, t.session, topic)
		switch {
		case err == nil:
			p.remove(topic)
			return result{outcome: MatchOutcome{Status: MatchMatched, Room: room}}
		case errors.Is(err, errWaiterGone):
			// ghost ticket; the requester takes the slot below
			p.remove(topic)
		default:
			return result{err: err}
		}
	}

	s.mu.Lock()
	switch {
	case s.state == StateClosed:
		s.mu.Unlock()
		return result{err: ErrSessionClosed}
	case s.state != StateIdle:
		s.mu.Unlock()
		return result{err: ErrAlreadyActive}
	}
	s.state = StateWaiting
	s.topic = topic
	s.mu.Unlock()

	p.nextID++
	t := &ticket{id: p.nextID, session: s}
	if c.waitTimeout > 0 {
		id := t.id
		t.timer = time.AfterFunc(c.waitTimeout, func() {
			select {
			case p.cmds <- command{kind: cmdExpire, topic: topic, ticket: id}:
			case <-c.done:
			}
		})
	}
	p.slots[topic] = t

	zap.L().Debug("debate.waiting",
		zap.String("topic", topic),
		zap.String("user", s.Identity.UserID),
	)
	return result{outcome: MatchOutcome{Status: MatchWaiting}}
}

// pair turns the requester and the parked waiter into a room.
func (c *Coordinator) pair(s, waiter *Session, topic string) (*Room, error) {
	unlock := lockPair(s, waiter)
	if waiter.state == StateClosed {
		unlock()
		return nil, errWaiterGone
	}
	if waiter.state != StateWaiting || waiter.topic != topic {
		unlock()
		invariantViolation("ticket for %q held by session %s in state %s", topic, waiter.ID, waiter.state)
	}
	if s.state == StateClosed {
		unlock()
		return nil, ErrSessionClosed
	}
	if s.state != StateIdle {
		unlock()
		return nil, ErrAlreadyActive
	}
	room, err := c.registry.createLocked(waiter, s, topic)
	unlock()
	if err != nil {
		return nil, err
	}
	c.registry.announce(room)
	return room, nil
}

func (c *Coordinator) expire(p *partition, topic string, id uint64) {
	t, ok := p.slots[topic]
	if !ok || t.id != id {
		return
	}
	p.remove(topic)

	s := t.session
	s.mu.Lock()
	expired := s.state == StateWaiting && s.topic == topic
	if expired {
		s.state = StateIdle
		s.topic = ""
	}
	s.mu.Unlock()

	if expired {
		s.notify(Event{Name: EventMatchTimeout, Body: MatchTimeout{Topic: topic}})
		zap.L().Debug("debate.wait_expired", zap.String("topic", topic))
	}
}

func (p *partition) remove(topic string) {
	if t, ok := p.slots[topic]; ok {
		if t.timer != nil {
			t.timer.Stop()
		}
		delete(p.slots, topic)
	}
}
