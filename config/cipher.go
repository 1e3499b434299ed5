package config

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"strings"

	"github.com/xuenqlve/rangekit/errors"
)

// CipherPrefix 标记配置里经过 AES 加密的密码
const CipherPrefix = "cipher:"

const encryptKey = "0123456789abc-de"

// Password 解密带 CipherPrefix 的密码，其余原样返回
func Password(value string) (string, error) {
	if !strings.HasPrefix(value, CipherPrefix) {
		return value, nil
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(value, CipherPrefix))
	if err != nil {
		return "", errors.Trace(err)
	}
	origData, err := aesDecrypt(data, []byte(encryptKey))
	if err != nil {
		return "", err
	}
	return string(origData), nil
}

func aesDecrypt(encrypted, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Trace(err)
	}
	blockSize := block.BlockSize()
	if len(encrypted) == 0 || len(encrypted)%blockSize != 0 {
		return nil, errors.Errorf("cipher text length %d is not a multiple of %d", len(encrypted), blockSize)
	}
	blockMode := cipher.NewCBCDecrypter(block, key[:blockSize])
	origData := make([]byte, len(encrypted))
	blockMode.CryptBlocks(origData, encrypted)
	return pkcs7UnPadding(origData)
}

func pkcs7UnPadding(origData []byte) ([]byte, error) {
	length := len(origData)
	unPadding := int(origData[length-1])
	if unPadding == 0 || unPadding > length {
		return nil, errors.New("invalid padding")
	}
	return origData[:length-unPadding], nil
}
