package items

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/smartstock/smartstock/internal/masterdata/shared"
	"github.com/smartstock/smartstock/internal/platform/httpx"
)

const maxFormMemory = 8 << 20

// ItemInput carries the editable fields of an item. Numeric fields accept
// JSON numbers as well as strings.
type ItemInput struct {
	ItemCode    string     `json:"itemCode"`
	Category    string     `json:"category"`
	UnitPrice   flexString `json:"unitPrice"`
	Unit        string     `json:"unit"`
	RackNumber  string     `json:"rackNumber"`
	Supplier    string     `json:"supplier"`
	ReOrder     flexString `json:"reOrder"`
	Description string     `json:"description"`
}

func (in ItemInput) toItem() Item {
	return Item{
		ItemCode:    in.ItemCode,
		Category:    in.Category,
		UnitPrice:   string(in.UnitPrice),
		Unit:        in.Unit,
		RackNumber:  in.RackNumber,
		Supplier:    in.Supplier,
		ReOrder:     string(in.ReOrder),
		Description: in.Description,
	}
}

// Upload is an image attached to an item request.
type Upload struct {
	Filename string
	Body     io.Reader
}

type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number: %w", err)
	}
	*f = flexString(n.String())
	return nil
}

// decodeRequest reads an item from a JSON body or a multipart form with an
// optional "image" file. The returned cleanup releases form files.
func decodeRequest(r *http.Request) (Item, *Upload, func(), error) {
	noop := func() {}
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		var in ItemInput
		if err := httpx.DecodeJSON(r, &in); err != nil {
			return Item{}, nil, noop, err
		}
		return in.toItem(), nil, noop, nil
	}

	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		return Item{}, nil, noop, fmt.Errorf("%w: malformed form: %v", shared.ErrValidation, err)
	}
	cleanup := func() { _ = r.MultipartForm.RemoveAll() }
	item := Item{
		ItemCode:    r.FormValue("itemCode"),
		Category:    r.FormValue("category"),
		UnitPrice:   r.FormValue("unitPrice"),
		Unit:        r.FormValue("unit"),
		RackNumber:  r.FormValue("rackNumber"),
		Supplier:    r.FormValue("supplier"),
		ReOrder:     r.FormValue("reOrder"),
		Description: r.FormValue("description"),
	}
	file, header, err := r.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile):
		return item, nil, cleanup, nil
	case err != nil:
		return Item{}, nil, cleanup, fmt.Errorf("%w: image: %v", shared.ErrValidation, err)
	}
	return item, &Upload{Filename: header.Filename, Body: file}, func() {
		_ = file.Close()
		cleanup()
	}, nil
}
