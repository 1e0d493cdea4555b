package menu

import (
	"context"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// DefaultMenuSize is the number of recipes sampled per week.
const DefaultMenuSize = 5

// Builder assembles a weekly plan: discover links, sample, parse, fold.
type Builder struct {
	fetcher Fetcher
	parser  *Parser
	source  Source
	size    int
	rng     *rand.Rand
	logger  *zap.Logger
	observe RecipeObserver
}

// RecipeObserver is told about every sampled recipe once it has been parsed
// or skipped. err is nil for recipes that made it into the plan.
type RecipeObserver func(ctx context.Context, url string, err error)

// BuilderOption customizes a Builder.
type BuilderOption func(*Builder)

// WithMenuSize overrides DefaultMenuSize. Non-positive values are ignored.
func WithMenuSize(n int) BuilderOption {
	return func(b *Builder) {
		if n > 0 {
			b.size = n
		}
	}
}

// WithSeed makes sampling deterministic. A zero seed keeps the time-based
// default.
func WithSeed(seed uint64) BuilderOption {
	return func(b *Builder) {
		if seed != 0 {
			b.rng = rand.New(rand.NewPCG(seed, seed))
		}
	}
}

// WithLogger sets the logger used for skipped recipes.
func WithLogger(logger *zap.Logger) BuilderOption {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithRecipeObserver registers fn to be called after each sampled recipe.
func WithRecipeObserver(fn RecipeObserver) BuilderOption {
	return func(b *Builder) {
		b.observe = fn
	}
}

// NewBuilder returns a Builder reading from src through fetcher.
func NewBuilder(fetcher Fetcher, src Source, opts ...BuilderOption) *Builder {
	now := uint64(time.Now().UnixNano())
	b := &Builder{
		fetcher: fetcher,
		parser:  NewParser(fetcher, src),
		source:  src,
		size:    DefaultMenuSize,
		rng:     rand.New(rand.NewPCG(now, now>>1)),
		logger:  zap.NewNop(),
		observe: func(context.Context, string, error) {},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Size reports how many recipes a plan samples.
func (b *Builder) Size() int {
	return b.size
}

// Build discovers recipe links, samples Size() of them without replacement
// and parses each one. A recipe that cannot be fetched is logged and left out
// of the plan, which may therefore hold fewer entries than Size().
func (b *Builder) Build(ctx context.Context) (Plan, error) {
	links, err := DiscoverRecipeLinks(ctx, b.fetcher, b.source)
	if err != nil {
		return Plan{}, err
	}
	if len(links) < b.size {
		return Plan{}, &InsufficientRecipesError{Found: len(links), Required: b.size}
	}

	plan := Plan{Candidates: len(links)}
	var ingredients []string
	for _, url := range b.sample(links) {
		if err := ctx.Err(); err != nil {
			return Plan{}, err
		}
		recipe, err := b.parser.Parse(ctx, url)
		if err != nil {
			b.logger.Warn("skipping recipe", zap.String("url", url), zap.Error(err))
			plan.Failures = append(plan.Failures, RecipeFailure{URL: url, Err: err})
			b.observe(ctx, url, err)
			continue
		}
		b.observe(ctx, url, nil)
		plan.Entries = append(plan.Entries, MenuEntry{RecipeName: recipe.Name, URL: url})
		ingredients = append(ingredients, recipe.Ingredients...)
	}
	plan.ShoppingList = BuildShoppingList(ingredients)
	return plan, nil
}

// sample draws b.size distinct links with a partial Fisher-Yates shuffle over
// a copy, leaving links untouched.
func (b *Builder) sample(links []string) []string {
	pool := append([]string(nil), links...)
	for i := 0; i < b.size; i++ {
		j := i + b.rng.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:b.size]
}
