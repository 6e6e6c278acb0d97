package gobigquery

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
	bq "google.golang.org/api/bigquery/v2"
	"google.golang.org/api/iterator"

	"github.com/bqdriver/gobigquery/metrics"
)

// Page is one decoded page of table data or query results.
type Page struct {
	Schema Schema
	Rows   []Row
	// Token fetches the next page; it is empty on the last page.
	Token string
	// Total is the number of rows of the whole result, as reported by the service.
	Total int64

	decoder *Decoder
}

// Headers returns the top level field names of the page's schema.
func (p *Page) Headers() []string {
	return p.Schema.Headers()
}

// PageFetcher fetches the raw page identified by token. Transport, authentication and retries
// are up to the implementation.
type PageFetcher func(ctx context.Context, token string) (*bq.TableDataList, error)

// Next fetches and decodes the page after p with the same schema and decoder. It returns
// iterator.Done when p is the last page.
func (p *Page) Next(ctx context.Context, fetch PageFetcher) (*Page, error) {
	if p.Token == "" {
		return nil, iterator.Done
	}
	list, err := fetch(ctx, p.Token)
	if err != nil {
		return nil, err
	}
	d := p.decoder
	if d == nil {
		d = defaultDecoder
	}
	return d.DecodePage(ctx, p.Schema, list)
}

// DecodePage decodes a tabledata.list response against schema.
func DecodePage(schema Schema, list *bq.TableDataList) (*Page, error) {
	return defaultDecoder.DecodePage(context.Background(), schema, list)
}

// DecodeQueryResults decodes a jobs.getQueryResults response with the schema it carries.
func DecodeQueryResults(resp *bq.GetQueryResultsResponse) (*Page, error) {
	return defaultDecoder.DecodeQueryResults(context.Background(), resp)
}

// DecodePage decodes a tabledata.list response against schema.
func (d *Decoder) DecodePage(ctx context.Context, schema Schema, list *bq.TableDataList) (*Page, error) {
	if list == nil {
		return &Page{Schema: schema, Rows: []Row{}, decoder: d}, nil
	}
	return d.decodePage(ctx, schema, list.Rows, list.PageToken, list.TotalRows)
}

// DecodeQueryResults decodes a jobs.getQueryResults response with the schema it carries.
func (d *Decoder) DecodeQueryResults(ctx context.Context, resp *bq.GetQueryResultsResponse) (*Page, error) {
	if resp == nil {
		return &Page{Schema: Schema{}, Rows: []Row{}, decoder: d}, nil
	}
	schema, err := SchemaFromAPI(resp.Schema)
	if err != nil {
		return nil, err
	}
	return d.decodePage(ctx, schema, resp.Rows, resp.PageToken, int64(resp.TotalRows))
}

// decodePage decodes the rows concurrently, bounded by the decoder's concurrency. Row order is
// kept and the first error cancels the remaining work.
func (d *Decoder) decodePage(ctx context.Context, schema Schema, rows []*bq.TableRow, token string, total int64) (*Page, error) {
	start := time.Now()
	decoded := make([]Row, len(rows))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency)
	for i, row := range rows {
		i, row := i, row
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := d.DecodeTableRow(schema, row)
			if err != nil {
				return err
			}
			decoded[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	metrics.DecodeDuration.Observe(time.Since(start).Seconds())
	d.logger.Debugf("decoded %d rows, next page token %q", len(decoded), token)
	return &Page{Schema: schema, Rows: decoded, Token: token, Total: total, decoder: d}, nil
}
