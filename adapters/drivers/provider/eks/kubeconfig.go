package eks

import "fmt"

// renderKubeconfig builds an exec-auth kubeconfig document. The user entry
// runs "aws eks get-token" at connection time, so the file itself carries
// only the endpoint and CA certificate.
func renderKubeconfig(clusterName, endpoint, caData, region string) []byte {
	doc := fmt.Sprintf(`apiVersion: v1
kind: Config
clusters:
- cluster:
    certificate-authority-data: %s
    server: %s
  name: %s
contexts:
- context:
    cluster: %s
    user: %s
  name: %s
current-context: %s
users:
- name: %s
  user:
    exec:
      apiVersion: client.authentication.k8s.io/v1beta1
      command: aws
      args:
        - eks
        - get-token
        - --cluster-name
        - %s
        - --region
        - %s
`, caData, endpoint, clusterName, clusterName, clusterName, clusterName, clusterName, clusterName, clusterName, region)
	return []byte(doc)
}
