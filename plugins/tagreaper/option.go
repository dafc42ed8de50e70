package tagreaper

import "github.com/bft-labs/xnew/pkg/xnew"

// WithTagReaper returns an xnew Option that caps the number of live nodes
// carrying a tag. When the count exceeds the high watermark, the oldest
// tagged nodes are finalized until the low watermark is reached.
//
// Usage:
//
//	rt, err := xnew.New(host,
//	    tagreaper.WithTagReaper(tagreaper.Config{
//	        Tag:           "enemy",
//	        HighWatermark: 200,
//	        LowWatermark:  150,
//	    }),
//	)
func WithTagReaper(cfg Config) xnew.Option {
	plugin := New(cfg)
	return xnew.WithPlugin(plugin)
}
