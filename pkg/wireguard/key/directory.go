package key

import (
	"path"
	"strings"

	"github.com/mrincompetent/pivpn-exporter/pkg/scrape"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.zx2c4.com/wireguard/wgctrl/wgtypes"
)

const (
	// PublicKeySuffix marks the files holding a client's public key, e.g. "alice_pub".
	PublicKeySuffix = "_pub"

	UnknownClient = "unknown"
)

// Directory maps a WireGuard public key to the client name it belongs to.
type Directory map[string]string

// Lookup returns the client name for the given public key or the key itself if it is unknown.
func (d Directory) Lookup(publicKey string) string {
	if name, ok := d[publicKey]; ok {
		return name
	}
	return publicKey
}

// ClientName derives the client name from a public key file name.
func ClientName(fileName string) string {
	if !strings.HasSuffix(fileName, PublicKeySuffix) {
		return UnknownClient
	}

	name := strings.TrimSuffix(fileName, PublicKeySuffix)
	if name == "" {
		return UnknownClient
	}
	return name
}

// LoadDirectory reads all public key files in dir.
// Files are processed in lexical order, so if two files contain the same key the later one wins.
func LoadDirectory(parentLog *zap.Logger, fs afero.Fs, dir string) (Directory, error) {
	log := parentLog.With(zap.String("keys_dir", dir))

	files, err := afero.ReadDir(fs, path.Clean(dir))
	if err != nil {
		return nil, scrape.IOError(dir, err)
	}

	clients := Directory{}
	for _, file := range files {
		if !strings.HasSuffix(file.Name(), PublicKeySuffix) {
			continue
		}

		fileName := path.Join(dir, file.Name())
		// ReadDir uses Lstat, so symlinked directories will return false on IsDir
		fileInfo, err := fs.Stat(fileName)
		if err != nil {
			return nil, scrape.IOError(fileName, err)
		}
		if fileInfo.IsDir() {
			continue
		}

		content, err := afero.ReadFile(fs, fileName)
		if err != nil {
			return nil, scrape.IOError(fileName, err)
		}

		publicKey := strings.TrimSpace(string(content))
		client := ClientName(file.Name())

		if _, err := wgtypes.ParseKey(publicKey); err != nil {
			log.Warn("Key file does not contain a valid WireGuard key", zap.String("file", fileName), zap.Error(err))
		}
		if previous, ok := clients[publicKey]; ok {
			log.Warn("Public key is used by multiple clients", zap.String("client", client), zap.String("previous_client", previous))
		}

		clients[publicKey] = client
	}

	log.Debug("Loaded client directory", zap.Int("clients", len(clients)))
	return clients, nil
}
