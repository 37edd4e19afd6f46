package inventory_test

import "github.com/jhoicas/stock-ledger/internal/application/dto"

func dtoAttach(name string) dto.AttachJustificatifRequest {
	return dto.AttachJustificatifRequest{FileName: name, StoragePath: "justificatifs/" + name, MimeType: "application/pdf"}
}
