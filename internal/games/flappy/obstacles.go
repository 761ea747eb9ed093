package flappy

import (
	"errors"
	"fmt"
	"image"
	"io"
	"math"
	"math/rand"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/gfx"
)

// ErrOutOfRange is returned by ObstacleManager.At for an invalid index.
var ErrOutOfRange = errors.New("flappy: obstacle index out of range")

// Position tells which half of a pair an obstacle is.
type Position int

const (
	PositionTop Position = iota
	PositionBottom
)

// String returns a human-readable name for the position.
func (p Position) String() string {
	switch p {
	case PositionTop:
		return "top"
	case PositionBottom:
		return "bottom"
	default:
		return "unknown"
	}
}

// Obstacle is one half of a pipe pair.
type Obstacle struct {
	ID       int       // Creation order, unique per manager lifetime
	Pair     int       // Shared by both halves of a pair
	Location core.Vec2 // Top-left corner
	Width    int
	Height   int // Drawn height
	Offset   int // Height draw shared by the pair
	Position Position

	texture gfx.Texture
}

// Bounds returns the area the obstacle covers on screen.
func (o Obstacle) Bounds() core.Rect {
	return core.NewRect(int(math.Floor(o.Location.X)), int(math.Floor(o.Location.Y)), o.Width, o.Height)
}

// ObstacleStats counts pairs over the manager's lifetime.
type ObstacleStats struct {
	PairsSpawned int
	PairsEvicted int
}

// ObstacleManager spawns, scrolls, draws and removes pipe pairs.
// Obstacles are kept oldest first and always come in bottom/top pairs.
type ObstacleManager struct {
	loader gfx.Loader
	logger *log.Logger

	pipe    image.Image // Pipe sprite as supplied
	body    image.Image // Pipe extended down to the ground line
	flipped image.Image // body rotated 180 degrees for top halves

	spawn   core.Vec2 // X is the spawn column, Y the ground line
	speed   float64
	spacing int
	gap     int
	step    int
	buckets int
	autoFit bool
	evictX  float64

	rng       *rand.Rand
	obstacles []Obstacle
	nextID    int

	synced     bool
	lastBucket int

	stats ObstacleStats
}

// NewObstacleManager creates a manager drawing pipes from source.
// spawn.X is where new pairs appear and spawn.Y is the ground line the
// bottom halves stand on.
func NewObstacleManager(source image.Image, loader gfx.Loader, cfg config.FlappyObstacles, spawn core.Vec2, seed int64) (*ObstacleManager, error) {
	if source == nil || source.Bounds().Empty() {
		return nil, fmt.Errorf("flappy: obstacle source: %w", gfx.ErrEmptyImage)
	}
	if loader == nil {
		return nil, errors.New("flappy: obstacle manager needs a loader")
	}

	m := &ObstacleManager{
		loader:    loader,
		logger:    log.New(io.Discard),
		pipe:      source,
		spacing:   max(cfg.Spacing, 1),
		gap:       max(cfg.GapSize, 1),
		step:      cfg.HeightStep,
		buckets:   max(cfg.HeightBuckets, 1),
		autoFit:   cfg.HeightStep <= 0,
		evictX:    cfg.EvictX,
		rng:       rand.New(rand.NewSource(seed)),
		obstacles: make([]Obstacle, 0, 16),
	}
	m.SetSpawnLocation(spawn)
	return m, nil
}

// SetLogger sets the logger used for spawn and eviction events.
// A nil logger discards output.
func (m *ObstacleManager) SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard)
	}
	m.logger = l
}

// SetSpeed sets the distance every obstacle moves on the next advance.
// Negative values are treated as zero.
func (m *ObstacleManager) SetSpeed(v float64) {
	m.speed = math.Max(v, 0)
}

// Speed returns the current per-advance scroll distance.
func (m *ObstacleManager) Speed() float64 {
	return m.speed
}

// Spacing returns the scroll distance between pairs.
func (m *ObstacleManager) Spacing() int {
	return m.spacing
}

// SetSpacing changes the scroll distance between pairs.
// Generate resynchronizes on its next call.
func (m *ObstacleManager) SetSpacing(s int) {
	m.spacing = max(s, 1)
	m.synced = false
}

// SetSpawnLocation moves the spawn column and ground line.
// Already live obstacles keep their textures.
func (m *ObstacleManager) SetSpawnLocation(spawn core.Vec2) {
	m.spawn = spawn
	ground := int(math.Floor(spawn.Y))

	if m.body == nil || m.body.Bounds().Dy() != max(ground, m.pipe.Bounds().Dy()) {
		m.body = gfx.ExtendDown(m.pipe, ground)
		m.flipped = gfx.Rotate180(m.body)
	}

	if m.autoFit {
		m.step = max((ground-m.gap-2)/m.buckets, 1)
	}
}

// SpawnLocation returns the spawn column and ground line.
func (m *ObstacleManager) SpawnLocation() core.Vec2 {
	return m.spawn
}

// Generate spawns one pair each time pos enters a new multiple of the
// spacing. The first call after construction, Reset or SetSpacing (and any
// call where pos went backwards) only spawns when floor(pos) is itself a
// multiple of the spacing. Reports whether a pair was spawned.
func (m *ObstacleManager) Generate(pos float64) (bool, error) {
	bucket := int(math.Floor(pos / float64(m.spacing)))

	if !m.synced || bucket < m.lastBucket {
		m.synced = true
		m.lastBucket = bucket
		if int(math.Floor(pos))%m.spacing != 0 {
			return false, nil
		}
	} else {
		if bucket == m.lastBucket {
			return false, nil
		}
		m.lastBucket = bucket
	}

	if _, _, err := m.SpawnPair(-1); err != nil {
		return false, err
	}
	return true, nil
}

// SpawnPair appends a bottom and a top obstacle at the spawn column.
// A negative height draws one of the configured buckets at random.
// If either texture fails to load nothing is appended.
func (m *ObstacleManager) SpawnPair(height int) (bottom, top Obstacle, err error) {
	if height < 0 {
		height = (m.rng.Intn(m.buckets) + 1) * m.step
	}

	w := m.pipe.Bounds().Dx()
	srcH := m.flipped.Bounds().Dy()
	pair := m.nextID

	bottomTex, err := m.loader.Load(gfx.Crop(m.body, w, max(height, 1)))
	if err != nil {
		return Obstacle{}, Obstacle{}, fmt.Errorf("flappy: load bottom obstacle: %w", err)
	}
	topTex, err := m.loader.Load(m.flipped)
	if err != nil {
		err = fmt.Errorf("flappy: load top obstacle: %w", err)
		if rerr := bottomTex.Release(); rerr != nil {
			err = errors.Join(err, fmt.Errorf("flappy: roll back bottom obstacle: %w", rerr))
		}
		return Obstacle{}, Obstacle{}, err
	}

	bottom = Obstacle{
		ID:       pair,
		Pair:     pair,
		Location: core.V(m.spawn.X, m.spawn.Y-float64(height)),
		Width:    w,
		Height:   height,
		Offset:   height,
		Position: PositionBottom,
		texture:  bottomTex,
	}
	top = Obstacle{
		ID:       pair + 1,
		Pair:     pair,
		Location: core.V(m.spawn.X, m.spawn.Y-float64(height+m.gap+srcH)),
		Width:    w,
		Height:   srcH,
		Offset:   height,
		Position: PositionTop,
		texture:  topTex,
	}

	m.obstacles = append(m.obstacles, bottom, top)
	m.nextID += 2
	m.stats.PairsSpawned++

	m.logger.Debug("spawned pair", "pair", pair, "height", height, "x", m.spawn.X, "live", len(m.obstacles))
	return bottom, top, nil
}

// AdvanceAndRender moves every obstacle left by the current speed, draws
// them, then evicts the oldest pairs while the oldest obstacle is left of
// the eviction line.
func (m *ObstacleManager) AdvanceAndRender(dst gfx.Canvas) error {
	for i := range m.obstacles {
		m.obstacles[i].Location.X -= m.speed
	}

	m.Render(dst)

	for len(m.obstacles) >= 2 && m.obstacles[0].Location.X < m.evictX {
		if _, err := m.EvictOldestPair(); err != nil {
			return err
		}
	}
	return nil
}

// Render draws every live obstacle clipped to its own size.
func (m *ObstacleManager) Render(dst gfx.Canvas) {
	for _, o := range m.obstacles {
		dst.DrawTexture(o.texture, image.Rect(0, 0, o.Width, o.Height), o.Location, 0)
	}
}

// EvictOldestPair releases and removes the two oldest obstacles.
// It reports false when there is no pair to remove. The pair is removed
// even if releasing a texture fails.
func (m *ObstacleManager) EvictOldestPair() (bool, error) {
	if len(m.obstacles) < 2 {
		return false, nil
	}

	first, second := m.obstacles[0], m.obstacles[1]
	m.obstacles = slices.Delete(m.obstacles, 0, 2)
	m.stats.PairsEvicted++

	m.logger.Debug("evicted pair", "pair", first.Pair, "x", first.Location.X, "live", len(m.obstacles))

	if err := errors.Join(first.texture.Release(), second.texture.Release()); err != nil {
		return true, fmt.Errorf("flappy: evict pair %d: %w", first.Pair, err)
	}
	return true, nil
}

// At returns the obstacle at index i, oldest first.
func (m *ObstacleManager) At(i int) (Obstacle, error) {
	if i < 0 || i >= len(m.obstacles) {
		return Obstacle{}, fmt.Errorf("%w: %d (len %d)", ErrOutOfRange, i, len(m.obstacles))
	}
	return m.obstacles[i], nil
}

// Obstacles returns a copy of the live obstacles, oldest first.
func (m *ObstacleManager) Obstacles() []Obstacle {
	return slices.Clone(m.obstacles)
}

// Len returns the number of live obstacles. It is always even.
func (m *ObstacleManager) Len() int {
	return len(m.obstacles)
}

// Stats returns lifetime spawn and eviction counts.
func (m *ObstacleManager) Stats() ObstacleStats {
	return m.stats
}

// Clear releases every live obstacle.
func (m *ObstacleManager) Clear() error {
	var errs []error
	for _, o := range m.obstacles {
		if err := o.texture.Release(); err != nil {
			errs = append(errs, fmt.Errorf("flappy: release obstacle %d: %w", o.ID, err))
		}
	}
	m.obstacles = m.obstacles[:0]
	return errors.Join(errs...)
}

// Reset clears all obstacles and reseeds the height generator.
func (m *ObstacleManager) Reset(seed int64) error {
	err := m.Clear()
	m.rng = rand.New(rand.NewSource(seed))
	m.synced = false
	m.lastBucket = 0
	m.nextID = 0
	m.stats = ObstacleStats{}
	return err
}
