package token

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"philcali.me/catalog/internal/data"
)

var ErrMalformedToken = errors.New("malformed continuation token")

type EncryptMode func(cipher.Block) (cipher.AEAD, error)

type EncryptionTokenMarshaler struct {
	Mode   EncryptMode
	Secret []byte
}

type sealedToken struct {
	Ciphertext string `json:"ciphertext"`
	Nonce      string `json:"nonce"`
}

func NewGCM(secret string) *EncryptionTokenMarshaler {
	return &EncryptionTokenMarshaler{
		Mode:   cipher.NewGCM,
		Secret: []byte(secret),
	}
}

func _lastKeyToToken(lastKey map[string]types.AttributeValue) ([]byte, error) {
	if len(lastKey) == 0 {
		return nil, nil
	}
	token := make(data.NextToken, len(lastKey))
	for key, value := range lastKey {
		switch v := value.(type) {
		case *types.AttributeValueMemberS:
			token[key] = map[string]string{"S": v.Value}
		case *types.AttributeValueMemberN:
			token[key] = map[string]string{"N": v.Value}
		case *types.AttributeValueMemberB:
			token[key] = map[string]string{"B": hex.EncodeToString(v.Value)}
		default:
			return nil, fmt.Errorf("unsupported key attribute %s: %T", key, value)
		}
	}
	return json.Marshal(token)
}

func _tokenToLastKey(plaintext []byte) (map[string]types.AttributeValue, error) {
	var nextToken data.NextToken
	if err := json.Unmarshal(plaintext, &nextToken); err != nil {
		return nil, err
	}
	lastKey := make(map[string]types.AttributeValue, len(nextToken))
	for field, inner := range nextToken {
		if sv, ok := inner["S"]; ok {
			lastKey[field] = &types.AttributeValueMemberS{Value: sv}
		} else if nv, ok := inner["N"]; ok {
			lastKey[field] = &types.AttributeValueMemberN{Value: nv}
		} else if bv, ok := inner["B"]; ok {
			raw, err := hex.DecodeString(bv)
			if err != nil {
				return nil, ErrMalformedToken
			}
			lastKey[field] = &types.AttributeValueMemberB{Value: raw}
		}
	}
	return lastKey, nil
}

func (em *EncryptionTokenMarshaler) _aead(scope string) (cipher.AEAD, error) {
	hash := sha256.New()
	hash.Write(em.Secret)
	hash.Write([]byte{0})
	hash.Write([]byte(scope))
	block, err := aes.NewCipher(hash.Sum(nil))
	if err != nil {
		return nil, err
	}
	return em.Mode(block)
}

func (em *EncryptionTokenMarshaler) Marshal(scope string, lastKey map[string]types.AttributeValue) ([]byte, error) {
	serialized, err := _lastKeyToToken(lastKey)
	if err != nil || serialized == nil {
		return nil, err
	}
	aead, err := em._aead(scope)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	payload, err := json.Marshal(sealedToken{
		Ciphertext: hex.EncodeToString(aead.Seal(nil, nonce, serialized, nil)),
		Nonce:      hex.EncodeToString(nonce),
	})
	if err != nil {
		return nil, err
	}
	encoded := make([]byte, base64.RawURLEncoding.EncodedLen(len(payload)))
	base64.RawURLEncoding.Encode(encoded, payload)
	return encoded, nil
}

func (em *EncryptionTokenMarshaler) Unmarshal(scope string, token []byte) (map[string]types.AttributeValue, error) {
	if len(token) == 0 {
		return nil, nil
	}
	payload := make([]byte, base64.RawURLEncoding.DecodedLen(len(token)))
	n, err := base64.RawURLEncoding.Decode(payload, token)
	if err != nil {
		return nil, ErrMalformedToken
	}
	var sealed sealedToken
	if err := json.Unmarshal(payload[:n], &sealed); err != nil {
		return nil, ErrMalformedToken
	}
	ciphertext, err := hex.DecodeString(sealed.Ciphertext)
	if err != nil {
		return nil, ErrMalformedToken
	}
	nonce, err := hex.DecodeString(sealed.Nonce)
	if err != nil {
		return nil, ErrMalformedToken
	}
	aead, err := em._aead(scope)
	if err != nil {
		return nil, err
	}
	if len(nonce) != aead.NonceSize() {
		return nil, ErrMalformedToken
	}
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, err
	}
	return _tokenToLastKey(plaintext)
}
