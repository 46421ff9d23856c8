// Package catalog resolves point tags and attribute paths to series and
// builds composed series from arithmetic expressions over them.
//
// Resolved leaves are kept in an LRU cache. Only the handles are cached;
// every retrieval still goes to the backend.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru"
	"github.com/sirupsen/logrus"

	"github.com/tejusbharadwaj/histseries/internal/series"
	"github.com/tejusbharadwaj/histseries/internal/source"
)

// PathSeparator separates the element from the attribute in an attribute
// path, e.g. "Reactor1|Temperature".
const PathSeparator = "|"

// ErrInvalidPath is returned for attribute paths without an element or
// attribute name.
var ErrInvalidPath = errors.New("invalid attribute path")

// Resolver looks up backend handles.
type Resolver interface {
	LookupPoint(ctx context.Context, tag string) (source.PointClient, error)
	LookupAttribute(ctx context.Context, element, name string) (source.AttributeClient, error)
	SearchPoints(ctx context.Context, pattern string) ([]string, error)
}

// Catalog resolves names through a Resolver.
type Catalog struct {
	resolver Resolver
	cache    *lru.Cache
	logger   *logrus.Logger
}

// New returns a catalog caching up to size resolved series.
func New(resolver Resolver, size int, logger *logrus.Logger) (*Catalog, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog cache: %w", err)
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Catalog{resolver: resolver, cache: cache, logger: logger}, nil
}

// Point returns the series of the point with the given tag.
func (c *Catalog) Point(ctx context.Context, tag string) (*series.Container, error) {
	key := "point:" + tag
	if v, ok := c.cache.Get(key); ok {
		return v.(*series.Container), nil
	}

	client, err := c.resolver.LookupPoint(ctx, tag)
	if err != nil {
		return nil, err
	}
	p, err := source.NewPoint(ctx, client)
	if err != nil {
		return nil, err
	}
	s := series.New(p)
	c.cache.Add(key, s)
	c.logger.WithFields(logrus.Fields{
		"tag":   tag,
		"units": p.UnitsOfMeasurement(),
	}).Debug("Resolved point")
	return s, nil
}

// Attribute returns the series of the attribute at path "element|name".
func (c *Catalog) Attribute(ctx context.Context, path string) (*series.Container, error) {
	element, name, err := SplitPath(path)
	if err != nil {
		return nil, err
	}
	key := "attribute:" + element + PathSeparator + name
	if v, ok := c.cache.Get(key); ok {
		return v.(*series.Container), nil
	}

	client, err := c.resolver.LookupAttribute(ctx, element, name)
	if err != nil {
		return nil, err
	}
	s := series.New(source.NewAttribute(client))
	c.cache.Add(key, s)
	c.logger.WithFields(logrus.Fields{
		"element":   element,
		"attribute": name,
	}).Debug("Resolved attribute")
	return s, nil
}

// Lookup resolves name as an attribute path when it contains the path
// separator and as a point tag otherwise.
func (c *Catalog) Lookup(ctx context.Context, name string) (*series.Container, error) {
	if strings.Contains(name, PathSeparator) {
		return c.Attribute(ctx, name)
	}
	return c.Point(ctx, name)
}

// Search returns the series of every point whose tag matches pattern.
func (c *Catalog) Search(ctx context.Context, pattern string) ([]*series.Container, error) {
	tags, err := c.resolver.SearchPoints(ctx, pattern)
	if err != nil {
		return nil, err
	}
	out := make([]*series.Container, 0, len(tags))
	for _, tag := range tags {
		s, err := c.Point(ctx, tag)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// Invalidate drops the cached series of a tag or attribute path.
func (c *Catalog) Invalidate(name string) {
	if element, attr, err := SplitPath(name); err == nil {
		c.cache.Remove("attribute:" + element + PathSeparator + attr)
		return
	}
	c.cache.Remove("point:" + name)
}

// Purge empties the cache.
func (c *Catalog) Purge() { c.cache.Purge() }

// Len returns the number of cached series.
func (c *Catalog) Len() int { return c.cache.Len() }

// SplitPath splits "element|name".
func SplitPath(path string) (element, name string, err error) {
	element, name, ok := strings.Cut(path, PathSeparator)
	element, name = strings.TrimSpace(element), strings.TrimSpace(name)
	if !ok || element == "" || name == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	return element, name, nil
}
