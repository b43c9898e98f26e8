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
	"github.com/helviojunior/pathaudit/internal/tools"
	logger "github.com/helviojunior/pathaudit/pkg/log"
	"github.com/helviojunior/pathaudit/pkg/models"
)

// fields in the detection model to ignore
var elkExludedFields = []string{"id", "file_id"}
var elkBulkCount = 1000
var elkBulkMaxSize = 5 * 1024 * 1024

// ElasticWriter indexes file results and their detections
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
				Cause  struct {
					Type   string `json:"type"`
					Reason string `json:"reason"`
				} `json:"caused_by"`
			} `json:"error"`
		} `json:"index"`
	} `json:"items"`
}

// ParseElasticURI splits an elastic URI into the node address and index
func ParseElasticURI(uri string) (*url.URL, string, string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, "", "", err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, "", "", fmt.Errorf("invalid elastic scheme %q", u.Scheme)
	}

	port := u.Port()
	if port == "" {
		port = "9200"
	}
	index_name := strings.Trim(u.EscapedPath(), "/ ")
	index_name = strings.SplitN(index_name, "/", 2)[0]
	if index_name == "" {
		index_name = "pathaudit"
	}

	return u, fmt.Sprintf("%s://%s:%s/", u.Scheme, u.Hostname(), port), index_name, nil
}

// NewElasticWriter returns a new Elasticsearch writer
func NewElasticWriter(uri string) (*ElasticWriter, error) {

	u, address, index_name, err := ParseElasticURI(uri)
	if err != nil {
		return nil, err
	}

	username := u.User.Username()
	password, _ := u.User.Password()

	wr := &ElasticWriter{
		Index: index_name,
	}

	conf := elk.Config{
		Addresses:     []string{address},
		RetryOnStatus: []int{429, 502, 503, 504},
		RetryBackoff: func(i int) time.Duration {
			// A simple exponential delay
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

	//File Index
	err = wr.CreateIndex(wr.Index, `{
            "settings": {"number_of_replicas": 1},
            "mappings": {
                "properties": {
                    "session_id": {"type": "keyword"},
                    "file_name": {"type": "keyword"},
                    "size": {"type": "long"},
                    "mime_type": {"type": "keyword"},
                    "application": {"type": "keyword"},
                    "fingerprint": {"type": "keyword"},
                    "scanned_at": {"type": "date"},
                    "failed": {"type": "boolean"},
                    "failed_reason": {"type": "text"}
                }
            }
        }`)
	if err != nil {
		return nil, err
	}

	//Detection Index
	err = wr.CreateIndex(wr.Index+"_detections", `{
            "settings": {"number_of_replicas": 1},
            "mappings": {
                "properties": {
                    "session_id": {"type": "keyword"},
                    "file": {"type": "keyword"},
                    "application": {"type": "keyword"},
                    "section": {"type": "keyword"},
                    "line": {"type": "long"},
                    "offset": {"type": "long"},
                    "path": {"type": "keyword"},
                    "category": {"type": "keyword"},
                    "possible_usage": {"type": "keyword"},
                    "impact": {"type": "keyword"},
                    "near_text": {"type": "text"},
                    "detected_at": {"type": "date"},
                    "file_id": {"type": "keyword"},
                    "fingerprint": {"type": "keyword"}
                }
            }
        }`)
	if err != nil {
		return nil, err
	}

	return wr, nil
}

// Write indexes a file result, then bulk indexes its detections
func (ew *ElasticWriter) Write(result *models.FileResult) error {

	file := result.Clone()
	fileID := result.Fingerprint
	if fileID == "" {
		fileID = tools.GetHash([]byte(result.SessionID + result.FileName))
	}

	logger.Debugf("Integrating elastic: %s, %d detections", result.FileName, len(result.Detections))

	b_data, err := json.Marshal(file)
	if err != nil {
		return err
	}
	b_data, err = ew.MarshalAppend(b_data, map[string]interface{}{"detections": nil})
	if err != nil {
		return err
	}

	res, err := ew.Client.Index(ew.Index, bytes.NewReader(b_data), ew.Client.Index.WithDocumentID(fileID))
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode != 200 && res.StatusCode != 201 {
		return fmt.Errorf("cannot create/update document: %s", res.Status())
	}

	docs := make(map[string][]byte)
	docs_len := 0

	for _, d := range result.Detections {
		b_data, err := json.Marshal(d)
		if err != nil {
			return err
		}

		cid := tools.GetHash(b_data)
		b_data, err = ew.MarshalAppend(b_data, map[string]interface{}{
			"file_id":     fileID,
			"fingerprint": cid,
		})
		if err != nil {
			return err
		}

		docs[cid] = b_data
		docs_len += len(b_data)

		if len(docs) >= elkBulkCount || docs_len >= elkBulkMaxSize {
			if err = ew.CreateDocBulk(ew.Index+"_detections", docs); err != nil {
				return err
			}
			docs = make(map[string][]byte)
			docs_len = 0
		}
	}
	if len(docs) > 0 {
		if err = ew.CreateDocBulk(ew.Index+"_detections", docs); err != nil {
			return err
		}
	}

	return nil
}

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
			return fmt.Errorf("failure to parse response body: %w", err)
		}
		return fmt.Errorf("cannot get elastic index [%d] %s", response.StatusCode, elasticReason(raw))
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
			return fmt.Errorf("failure to parse response body: %w", err)
		}
		return fmt.Errorf("cannot create/update elastic index [%d] %s", res.StatusCode, elasticReason(raw))
	}

	return nil
}

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
		ok, err := ew.bulk(index, buf.Bytes(), i >= 5, &raw)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}

		time.Sleep(1 * time.Second)
	}

	return errors.New("cannot create/update document")
}

func (ew *ElasticWriter) bulk(index string, body []byte, last bool, raw *map[string]interface{}) (bool, error) {
	res, err := ew.Client.Bulk(bytes.NewReader(body), ew.Client.Bulk.WithIndex(index))
	if err != nil {
		return false, err
	}
	defer res.Body.Close()

	if res.IsError() {
		if !last {
			return false, nil
		}
		if err := json.NewDecoder(res.Body).Decode(raw); err != nil {
			return false, fmt.Errorf("failure to parse response body: %w", err)
		}
		return false, fmt.Errorf("error: [%d] %s", res.StatusCode, elasticReason(*raw))
	}

	// A successful response might still contain errors for particular documents
	var blk *bulkResponse
	if err := json.NewDecoder(res.Body).Decode(&blk); err != nil {
		return false, fmt.Errorf("failure to parse response body: %w", err)
	}
	for _, d := range blk.Items {
		if d.Index.Status > 201 {
			logger.Debugf("  Error: [%d]: %s: %s: %s: %s",
				d.Index.Status,
				d.Index.Error.Type,
				d.Index.Error.Reason,
				d.Index.Error.Cause.Type,
				d.Index.Error.Cause.Reason,
			)
		}
	}

	return res.StatusCode == 200 || res.StatusCode == 201, nil
}

func (ew *ElasticWriter) MarshalAppend(marshalled []byte, new_data map[string]interface{}) ([]byte, error) {
	t_data := make(map[string]interface{})
	if err := json.Unmarshal(marshalled, &t_data); err != nil {
		return []byte{}, err
	}

	data := make(map[string]interface{})
	for k, v := range t_data {
		// skip excluded fields
		if tools.SliceHasStr(elkExludedFields, k) {
			continue
		}
		data[k] = v
	}

	for k, v := range new_data {
		if v == nil {
			delete(data, k)
			continue
		}
		data[k] = v
	}

	return json.Marshal(data)
}

func elasticReason(raw map[string]interface{}) string {
	e, ok := raw["error"].(map[string]interface{})
	if !ok {
		return "unknown error"
	}
	return fmt.Sprintf("%v: %v", e["type"], e["reason"])
}
