package writers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	elk "github.com/elastic/go-elasticsearch/v8"
	esapi "github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/helviojunior/abapscan/internal/tools"
	logger "github.com/helviojunior/abapscan/pkg/log"
	"github.com/helviojunior/abapscan/pkg/models"
)

// fields in the main model to ignore when indexing
var elkExcludedFields = []string{"failed", "failed_reason", "code"}
var elkBulkCount = 1000
var elkBulkMaxSize = 5 * 1024 * 1024

// ElasticWriter indexes results and their findings into Elasticsearch
type ElasticWriter struct {
	Client *elk.Client
	Index  string
}

type bulkResponse struct {
	Errors bool `json:"errors"`
	Items  []struct {
		Index struct {
			ID     string `json:"_id"`
			Result string `json:"result"`
			Status int    `json:"status"`
			Error  struct {
				Type   string `json:"type"`
				Reason string `json:"reason"`
			} `json:"error"`
		} `json:"index"`
	} `json:"items"`
}

// NewElasticWriter returns a new Elasticsearch writer
func NewElasticWriter(uri string) (*ElasticWriter, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, err
	}

	username := u.User.Username()
	password, _ := u.User.Password()
	port := u.Port()
	if port == "" {
		port = "9200"
	}
	indexName := strings.Trim(u.EscapedPath(), "/ ")
	indexName = strings.SplitN(indexName, "/", 2)[0]
	if indexName == "" {
		indexName = "abapscan"
	}

	wr := &ElasticWriter{
		Index: indexName,
	}

	conf := elk.Config{
		Addresses: []string{
			fmt.Sprintf("%s://%s:%s/", u.Scheme, u.Hostname(), port),
		},
		RetryOnStatus: []int{429, 502, 503, 504},
		RetryBackoff: func(i int) time.Duration {
			d := time.Duration(math.Exp2(float64(i))) * time.Second
			logger.Debugf("Elastic retry, attempt: %d | Sleeping for %s...\n", i, d)
			return d
		},
		Transport: &http.Transport{
			MaxIdleConns:       10,
			IdleConnTimeout:    10 * time.Second,
			DisableCompression: true,
		},
	}

	if username != "" && password != "" {
		conf.Username = username
		conf.Password = password
	}

	wr.Client, err = elk.NewClient(conf)
	if err != nil {
		return nil, err
	}

	// Results index
	err = wr.CreateIndex(wr.Index, `{
		    "settings": {
                    "number_of_replicas": 1,
                    "index": {"highlight.max_analyzed_offset": 10000000}
                },

            "mappings": {
                "properties": {
                    "scanned_at": {"type": "date"},
                    "scan_id": {"type": "keyword"},
                    "fingerprint": {"type": "keyword"},
                    "shingle": {"type": "keyword"},
                    "pgm_name": {"type": "keyword"},
                    "inc_name": {"type": "keyword"},
                    "type": {"type": "keyword"},
                    "name": {"type": "keyword"},
                    "class_implementation": {"type": "keyword"},
                    "start_line": {"type": "long"},
                    "end_line": {"type": "long"}
                }
            }
		}`)
	if err != nil {
		return nil, err
	}

	// Findings index
	err = wr.CreateIndex(wr.Index+"_findings", `{
		    "settings": {
                    "number_of_replicas": 1,
                    "index": {"highlight.max_analyzed_offset": 10000000}
                },

            "mappings": {
                "properties": {
                    "fingerprint": {"type": "keyword"},
                    "result_id": {"type": "keyword"},
                    "pgm_name": {"type": "keyword"},
                    "inc_name": {"type": "keyword"},
                    "issue_type": {"type": "keyword"},
                    "severity": {"type": "keyword"},
                    "table": {"type": "keyword"},
                    "field": {"type": "keyword"},
                    "line": {"type": "long"},
                    "span_start": {"type": "long"},
                    "span_end": {"type": "long"},
                    "message": {"type": "text"},
                    "suggestion": {"type": "text"},
                    "snippet": {"type": "text"}
                }
            }
		}`)
	if err != nil {
		return nil, err
	}

	return wr, nil
}

// Write a result and its findings to Elasticsearch
func (ew *ElasticWriter) Write(result *models.ScanResult) error {
	findings := make([]models.Finding, len(result.Findings))
	copy(findings, result.Findings)

	r1 := result.Clone()
	r1.Findings = nil

	logger.Debugf("Integrating elastic: %d findings", len(findings))

	bData, err := json.Marshal(r1)
	if err != nil {
		return err
	}
	bData, err = ew.MarshalStrip(bData, nil)
	if err != nil {
		return err
	}

	res, err := ew.Client.Index(ew.Index, bytes.NewReader(bData), ew.Client.Index.WithDocumentID(r1.Fingerprint))
	if err != nil {
		return err
	}
	if res.StatusCode != 200 && res.StatusCode != 201 {
		return errors.New("cannot create/update document")
	}

	docs := make(map[string][]byte)
	docsLen := 0

	for _, f := range findings {
		bData, err := json.Marshal(f)
		if err != nil {
			return err
		}

		cid := tools.GetHash(bData)
		bData, err = ew.MarshalStrip(bData, map[string]interface{}{
			"result_id":   r1.Fingerprint,
			"fingerprint": cid,
		})
		if err != nil {
			return err
		}

		docs[cid] = bData
		docsLen += len(bData)

		if len(docs) >= elkBulkCount || docsLen >= elkBulkMaxSize {
			if err := ew.CreateDocBulk(ew.Index+"_findings", docs); err != nil {
				return err
			}
			docs = make(map[string][]byte)
			docsLen = 0
		}
	}
	if len(docs) > 0 {
		if err := ew.CreateDocBulk(ew.Index+"_findings", docs); err != nil {
			return err
		}
	}

	return nil
}

// CreateIndex ensures an index exists with the given mapping
func (ew *ElasticWriter) CreateIndex(index string, mapping string) error {
	var raw map[string]interface{}

	response, err := ew.Client.Indices.Exists([]string{index})
	if err != nil {
		return err
	}
	defer response.Body.Close()

	if !response.IsError() {
		return nil
	}

	if response.StatusCode != 404 {
		if err := json.NewDecoder(response.Body).Decode(&raw); err != nil {
			return fmt.Errorf("failure to parse response body: %s", err)
		}
		return fmt.Errorf("cannot get elastic index [%d] %s: %s",
			response.StatusCode,
			raw["error"].(map[string]interface{})["type"],
			raw["error"].(map[string]interface{})["reason"],
		)
	}

	indexReq := esapi.IndicesCreateRequest{
		Index: index,
		Body:  strings.NewReader(mapping),
	}

	logger.Infof("Creating elastic index %s", index)
	res, err := indexReq.Do(context.Background(), ew.Client)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		if err := json.NewDecoder(res.Body).Decode(&raw); err != nil {
			return fmt.Errorf("failure to parse response body: %s", err)
		}
		return fmt.Errorf("cannot create/update elastic index [%d] %s: %s",
			res.StatusCode,
			raw["error"].(map[string]interface{})["type"],
			raw["error"].(map[string]interface{})["reason"],
		)
	}

	return nil
}

// CreateDocBulk indexes a batch of documents
func (ew *ElasticWriter) CreateDocBulk(index string, docs map[string][]byte) error {
	var raw map[string]interface{}
	var buf bytes.Buffer
	size := 0
	for id, doc := range docs {
		meta := []byte(fmt.Sprintf(`{ "index" : { "_id" : "%s" } }%s`, id, "\n"))
		data := append([]byte(doc), "\n"...)

		size += len(meta) + len(data)
		buf.Grow(len(meta) + len(data))
		buf.Write(meta)
		buf.Write(data)
	}

	logger.Debugf("Elastic bulk %d docs, %d bytes", len(docs), size)

	for i := range 10 {
		res, err := ew.Client.Bulk(bytes.NewReader(buf.Bytes()), ew.Client.Bulk.WithIndex(index))
		if err != nil {
			return err
		}
		defer res.Body.Close()

		if res.IsError() {
			if i >= 5 {
				if err := json.NewDecoder(res.Body).Decode(&raw); err != nil {
					return fmt.Errorf("failure to parse response body: %s", err)
				}
				return fmt.Errorf("error: [%d] %s: %s",
					res.StatusCode,
					raw["error"].(map[string]interface{})["type"],
					raw["error"].(map[string]interface{})["reason"],
				)
			}
		} else {
			var blk *bulkResponse
			if err := json.NewDecoder(res.Body).Decode(&blk); err != nil {
				return fmt.Errorf("failure to parse response body: %s", err)
			}
			for _, d := range blk.Items {
				if d.Index.Status > 201 {
					logger.Debugf("  Error: [%d]: %s: %s",
						d.Index.Status,
						d.Index.Error.Type,
						d.Index.Error.Reason,
					)
				}
			}
		}

		if res.StatusCode == 200 || res.StatusCode == 201 {
			return nil
		}

		time.Sleep(1 * time.Second)
	}

	return errors.New("cannot create/update document")
}

// MarshalStrip re-marshals a document without the excluded fields,
// merging in any extra keys.
func (ew *ElasticWriter) MarshalStrip(marshalled []byte, extra map[string]interface{}) ([]byte, error) {
	tData := make(map[string]interface{})
	if err := json.Unmarshal(marshalled, &tData); err != nil {
		return []byte{}, err
	}

	data := make(map[string]interface{})
	for k, v := range tData {
		if tools.SliceHasStr(elkExcludedFields, k) {
			continue
		}
		data[k] = v
	}

	for k, v := range extra {
		data[k] = v
	}

	return json.Marshal(data)
}
